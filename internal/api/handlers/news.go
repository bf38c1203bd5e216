package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/dom/news-api/internal/api/middleware"
	"github.com/dom/news-api/internal/api/respond"
	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/logging"
	"github.com/dom/news-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxUploadSize = 10 << 20

var errNotAnImage = errors.New("uploaded file is not an image")

type NewsHandler struct {
	newsService *service.NewsService
	logger      logging.Logger
}

func NewNewsHandler(newsService *service.NewsService, logger logging.Logger) *NewsHandler {
	return &NewsHandler{
		newsService: newsService,
		logger:      logger,
	}
}

type ListNewsRequest struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
}

type NewsListResponse struct {
	Data       []*domain.News         `json:"data"`
	Pagination service.NewsPagination `json:"pagination"`
}

// newsForm is the writable part of a news item, read from multipart form
// fields or from a JSON body. IsPublished accepts a bool or its string form.
type newsForm struct {
	Title       string          `json:"title"`
	Content     string          `json:"content"`
	Category    string          `json:"category"`
	IsPublished json.RawMessage `json:"isPublished"`
}

func (h *NewsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	h.list(w, r, service.ListNewsInput{
		ID:       q.Get("id"),
		Slug:     q.Get("slug"),
		Category: q.Get("category"),
		Page:     page,
		Limit:    limit,
	})
}

func (h *NewsHandler) ListByFilter(w http.ResponseWriter, r *http.Request) {
	var req ListNewsRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	h.list(w, r, service.ListNewsInput(req))
}

func (h *NewsHandler) list(w http.ResponseWriter, r *http.Request, input service.ListNewsInput) {
	list, err := h.newsService.List(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, h.logger, "news.List", err)
		return
	}

	respond.JSON(w, http.StatusOK, NewsListResponse{
		Data:       list.Items,
		Pagination: list.Pagination,
	})
}

func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	form, image, cleanup, err := parseNewsRequest(r)
	if err != nil {
		h.writeParseError(w, err)
		return
	}
	defer cleanup()

	if strings.TrimSpace(form.Title) == "" || strings.TrimSpace(form.Content) == "" || form.Category == "" {
		respond.Error(w, http.StatusBadRequest, "Title, content, and category are required")
		return
	}

	published, _ := parsePublished(form.IsPublished)

	news, err := h.newsService.Create(r.Context(), service.CreateNewsInput{
		Title:       form.Title,
		Content:     form.Content,
		Category:    form.Category,
		IsPublished: published,
		AuthorID:    userID,
		Image:       image,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, "news.Create", err)
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]interface{}{
		"message": "News created successfully",
		"data":    news,
	})
}

func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "News not found")
		return
	}

	form, image, cleanup, err := parseNewsRequest(r)
	if err != nil {
		h.writeParseError(w, err)
		return
	}
	defer cleanup()

	input := service.UpdateNewsInput{
		Title:    form.Title,
		Content:  form.Content,
		Category: form.Category,
		Image:    image,
	}
	if published, ok := parsePublished(form.IsPublished); ok {
		input.IsPublished = &published
	}

	news, err := h.newsService.Update(r.Context(), id, input)
	if err != nil {
		writeServiceError(w, r, h.logger, "news.Update", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "News updated successfully",
		"data":    news,
	})
}

func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusNotFound, "News not found")
		return
	}

	if err := h.newsService.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, h.logger, "news.Delete", err)
		return
	}

	respond.JSON(w, http.StatusOK, MessageResponse{Message: "News and image deleted successfully"})
}

func (h *NewsHandler) writeParseError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNotAnImage) {
		respond.Error(w, http.StatusBadRequest, "Only image uploads are allowed")
		return
	}
	respond.Error(w, http.StatusBadRequest, "Invalid request body")
}

// parseNewsRequest accepts multipart/form-data (with an optional "image"
// file) or JSON. cleanup releases the uploaded file and is never nil.
func parseNewsRequest(r *http.Request) (newsForm, *service.ImageUpload, func(), error) {
	var form newsForm
	noop := func() {}

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return form, nil, noop, err
		}
		return form, nil, noop, nil
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return form, nil, noop, err
	}

	form.Title = r.FormValue("title")
	form.Content = r.FormValue("content")
	form.Category = r.FormValue("category")
	if v := r.FormValue("isPublished"); v != "" {
		form.IsPublished, _ = json.Marshal(v)
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil, noop, nil
	}
	if err != nil {
		return form, nil, noop, err
	}

	image, err := toImageUpload(file, header)
	if err != nil {
		file.Close()
		return form, nil, noop, err
	}
	return form, image, func() { file.Close() }, nil
}

func toImageUpload(file multipart.File, header *multipart.FileHeader) (*service.ImageUpload, error) {
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errNotAnImage
	}
	return &service.ImageUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}, nil
}

// parsePublished reports the requested publish state and whether one was given.
func parsePublished(raw json.RawMessage) (bool, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return false, false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, err := strconv.ParseBool(strings.TrimSpace(s))
		return err == nil && v, true
	}
	return false, true
}
