package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"transcatalog/internal/model"
	"transcatalog/internal/search"
	"transcatalog/internal/service"
)

type TranslationHandler struct {
	service service.TranslationService
}

func NewTranslationHandler(service service.TranslationService) *TranslationHandler {
	return &TranslationHandler{service: service}
}

func (h *TranslationHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/translations", h.List)
	g.POST("/translations", h.Create)
	g.GET("/translations/search", h.Search)
	g.GET("/translations/export", h.Export)
	g.GET("/translations/:id", h.GetByID)
	g.PUT("/translations/:id", h.Update)
	g.DELETE("/translations/:id", h.Delete)
}

type createTranslationRequest struct {
	Key     string  `json:"key"`
	Locale  string  `json:"locale"`
	Content string  `json:"content"`
	Tag     *string `json:"tag"`
}

type updateTranslationRequest struct {
	Content *string `json:"content"`
	Tag     *string `json:"tag"`
}

type translationResponse struct {
	ID        string  `json:"id"`
	Key       string  `json:"key"`
	Locale    string  `json:"locale"`
	Content   string  `json:"content"`
	Tag       *string `json:"tag"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

type translationPageResponse struct {
	Data        []translationResponse `json:"data"`
	CurrentPage int                   `json:"currentPage"`
	PerPage     int                   `json:"perPage"`
	Total       int                   `json:"total"`
	LastPage    int                   `json:"lastPage"`
}

// List returns translations newest first.
// @Summary List translations
// @Description Get a page of translations ordered by creation time, newest first
// @Tags translations
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Success 200 {object} translationPageResponse
// @Failure 401 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /translations [get]
func (h *TranslationHandler) List(c echo.Context) error {
	page, err := h.service.List(c.Request().Context(), parsePage(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toPageResponse(page))
}

// Search filters translations by key, locale, tag and content.
// @Summary Search translations
// @Description Key and content match case-sensitive substrings, locale and tag match exactly. Filters are combined with AND.
// @Tags translations
// @Produce json
// @Security BearerAuth
// @Param key query string false "Key substring"
// @Param locale query string false "Locale"
// @Param tag query string false "Tag"
// @Param content query string false "Content substring"
// @Param page query int false "Page number (default 1)"
// @Success 200 {object} translationPageResponse
// @Failure 401 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /translations/search [get]
func (h *TranslationHandler) Search(c echo.Context) error {
	filter := search.Filter{
		Key:     optionalQuery(c, "key"),
		Locale:  optionalQuery(c, "locale"),
		Tag:     optionalQuery(c, "tag"),
		Content: optionalQuery(c, "content"),
	}
	page, err := h.service.Search(c.Request().Context(), filter, parsePage(c))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toPageResponse(page))
}

// Export returns every key of a locale as one JSON object.
// @Summary Export a locale
// @Description Get the key to content mapping of a locale. Served from a cache that is refreshed on every change and at most 60 seconds old otherwise.
// @Tags translations
// @Produce json
// @Security BearerAuth
// @Param locale query string false "Locale (default en)"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /translations/export [get]
func (h *TranslationHandler) Export(c echo.Context) error {
	snap, err := h.service.Export(c.Request().Context(), c.QueryParam("locale"))
	if err != nil {
		return writeServiceError(c, err)
	}
	c.Response().Header().Set("Last-Modified", snap.ComputedAt.UTC().Format(http.TimeFormat))
	return c.JSONBlob(http.StatusOK, snap.Body)
}

// Create adds a translation.
// @Summary Create a translation
// @Tags translations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param translation body createTranslationRequest true "Translation"
// @Success 201 {object} translationResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 503 {object} errorResponse
// @Router /translations [post]
func (h *TranslationHandler) Create(c echo.Context) error {
	var req createTranslationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	created, err := h.service.Create(c.Request().Context(), service.CreateInput{
		Key:     req.Key,
		Locale:  req.Locale,
		Content: req.Content,
		Tag:     req.Tag,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toTranslationResponse(created))
}

// GetByID returns one translation.
// @Summary Get a translation
// @Tags translations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Translation ID"
// @Success 200 {object} translationResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /translations/{id} [get]
func (h *TranslationHandler) GetByID(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	t, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toTranslationResponse(t))
}

// Update changes the content and/or tag of a translation.
// @Summary Update a translation
// @Description Only the supplied fields change; key and locale are fixed at creation
// @Tags translations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Translation ID"
// @Param translation body updateTranslationRequest true "Fields to change"
// @Success 200 {object} translationResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /translations/{id} [put]
func (h *TranslationHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	var req updateTranslationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	updated, err := h.service.Update(c.Request().Context(), id, model.TranslationPatch{
		Content: req.Content,
		Tag:     req.Tag,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toTranslationResponse(updated))
}

// Delete removes a translation.
// @Summary Delete a translation
// @Tags translations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Translation ID"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /translations/{id} [delete]
func (h *TranslationHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Translation Deleted"})
}

func toTranslationResponse(t model.Translation) translationResponse {
	return translationResponse{
		ID:        idToString(t.ID),
		Key:       t.Key,
		Locale:    t.Locale,
		Content:   t.Content,
		Tag:       t.Tag,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toPageResponse(p service.Page) translationPageResponse {
	data := make([]translationResponse, 0, len(p.Items))
	for _, t := range p.Items {
		data = append(data, toTranslationResponse(t))
	}
	return translationPageResponse{
		Data:        data,
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		Total:       p.Total,
		LastPage:    p.LastPage(),
	}
}
