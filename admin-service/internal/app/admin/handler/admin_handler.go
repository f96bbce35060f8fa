package handler

import (
	"errors"
	"net/http"
	"strconv"

	"catalogadmin/admin-service/internal/app/admin/entity"
	"catalogadmin/admin-service/internal/app/admin/filter"
	"catalogadmin/admin-service/internal/app/admin/form"
	remote "catalogadmin/admin-service/internal/app/admin/infrastructure/http"
	"catalogadmin/admin-service/internal/app/admin/service"
	"catalogadmin/admin-service/internal/app/admin/session"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// AdminHandler HTTP-поверхность сессии администратора
type AdminHandler struct {
	session   *session.Session
	validator *validator.Validate
}

// NewAdminHandler создает обработчик поверх сессии
func NewAdminHandler(s *session.Session) *AdminHandler {
	return &AdminHandler{
		session:   s,
		validator: validator.New(),
	}
}

// === STATE & FILTER ===

// GetState обрабатывает GET /admin/state
func (h *AdminHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.State())
}

// SetNameFilter обрабатывает PUT /admin/filter
func (h *AdminHandler) SetNameFilter(c *gin.Context) {
	var req entity.SetNameFilterRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.session.SetNameFilter(req.Name); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.State())
}

// SetPage обрабатывает PUT /admin/filter/page
func (h *AdminHandler) SetPage(c *gin.Context) {
	var req entity.SetPageRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.session.SetPage(req.Selected); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.State())
}

// Navigate обрабатывает PUT /admin/location (назад/вперед в браузере)
func (h *AdminHandler) Navigate(c *gin.Context) {
	var req entity.NavigateRequest
	if !h.bind(c, &req) {
		return
	}

	h.session.Navigate(req.Query)
	c.JSON(http.StatusOK, h.session.State())
}

// === PRODUCTS ===

// OpenEdit обрабатывает POST /admin/products/:id/edit
func (h *AdminHandler) OpenEdit(c *gin.Context) {
	if err := h.session.OpenEdit(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Form().View())
}

// DeleteProduct обрабатывает DELETE /admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	if err := h.session.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, entity.SuccessResponse{Message: service.MsgProductDeleted})
}

// === DIALOG ===

// OpenDialog обрабатывает POST /admin/dialog
func (h *AdminHandler) OpenDialog(c *gin.Context) {
	var req entity.OpenDialogRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.session.Form().Open(c.Request.Context(), form.Mode(req.Mode)); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Form().View())
}

// CloseDialog обрабатывает DELETE /admin/dialog
func (h *AdminHandler) CloseDialog(c *gin.Context) {
	h.session.Form().Close()
	c.JSON(http.StatusOK, h.session.Form().View())
}

// SetField обрабатывает PUT /admin/dialog/fields
func (h *AdminHandler) SetField(c *gin.Context) {
	var req entity.SetFieldRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.session.Form().SetField(req.Field, req.Value); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Form().View())
}

// AddStockRow обрабатывает POST /admin/dialog/stock
func (h *AdminHandler) AddStockRow(c *gin.Context) {
	if err := h.session.Form().AddStockRow(); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.session.Form().View())
}

// SetStockRow обрабатывает PUT /admin/dialog/stock/:index
func (h *AdminHandler) SetStockRow(c *gin.Context) {
	index, ok := stockIndex(c)
	if !ok {
		return
	}

	var req entity.StockRowRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.session.Form().SetStockRow(index, form.StockRow{Size: req.Size, Quantity: req.Quantity}); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dialog":       h.session.Form().View(),
		"size_options": h.session.Form().SizeOptions(index),
	})
}

// RemoveStockRow обрабатывает DELETE /admin/dialog/stock/:index
func (h *AdminHandler) RemoveStockRow(c *gin.Context) {
	index, ok := stockIndex(c)
	if !ok {
		return
	}

	if err := h.session.Form().RemoveStockRow(index); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Form().View())
}

// ToggleCategory обрабатывает POST /admin/dialog/categories/toggle
func (h *AdminHandler) ToggleCategory(c *gin.Context) {
	var req entity.ToggleCategoryRequest
	if !h.bind(c, &req) {
		return
	}

	selected, err := h.session.Form().ToggleCategory(req.Name)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"selected": selected,
		"dialog":   h.session.Form().View(),
	})
}

// UploadImage обрабатывает POST /admin/dialog/image (multipart, поле file)
func (h *AdminHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "File is required")
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Failed to read file")
		return
	}
	defer file.Close()

	err = h.session.UploadImage(c.Request.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	view := h.session.Form().View()
	if view.UploadError != "" {
		respondError(c, http.StatusBadGateway, view.UploadError)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetImage обрабатывает PUT /admin/dialog/image, URL сохраняется как есть
func (h *AdminHandler) SetImage(c *gin.Context) {
	var req entity.ImageURLRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.session.Form().SetImage(req.URL); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.Form().View())
}

// Submit обрабатывает POST /admin/dialog/submit
func (h *AdminHandler) Submit(c *gin.Context) {
	if err := h.session.Form().Submit(c.Request.Context()); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.State())
}

// SetNewCategoryName обрабатывает PUT /admin/dialog/new-category
func (h *AdminHandler) SetNewCategoryName(c *gin.Context) {
	var req entity.NewCategoryNameRequest
	if !h.bind(c, &req) {
		return
	}

	h.session.Form().SetNewCategoryName(req.Name)
	c.JSON(http.StatusOK, h.session.Form().View())
}

// SubmitNewCategory обрабатывает POST /admin/dialog/new-category
func (h *AdminHandler) SubmitNewCategory(c *gin.Context) {
	if err := h.session.Form().SubmitNewCategory(c.Request.Context()); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.session.State())
}

// === CATEGORIES & NOTIFICATIONS ===

// DeleteCategory обрабатывает DELETE /admin/categories/:id
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	if err := h.session.Form().DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.session.State())
}

// GetNotifications обрабатывает GET /admin/notifications
func (h *AdminHandler) GetNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.session.Notifications(),
	})
}

// === HELPERS ===

// bind разбирает JSON тело и проверяет validate-теги
// DTO размечены только validate-тегами: ShouldBindJSON лишь декодирует, проверка идет через h.validator
func (h *AdminHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		respondError(c, http.StatusBadRequest, formatValidationError(err))
		return false
	}
	return true
}

// handleError отображает ошибки слоев в HTTP статусы
func (h *AdminHandler) handleError(c *gin.Context, err error) {
	var verr *form.ValidationError
	var remoteErr *remote.RemoteError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, entity.ErrorResponse{
			Error:   http.StatusText(http.StatusUnprocessableEntity),
			Message: verr.Message,
			Field:   verr.Field,
		})
	case errors.As(err, &remoteErr):
		respondError(c, http.StatusBadGateway, remoteErr.Message)
	case errors.Is(err, session.ErrProductNotFound):
		respondError(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, form.ErrDialogClosed),
		errors.Is(err, form.ErrSubmitInProgress),
		errors.Is(err, service.ErrProductNotSelected):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, form.ErrInvalidMode),
		errors.Is(err, form.ErrUnknownField),
		errors.Is(err, form.ErrRowOutOfRange),
		errors.Is(err, filter.ErrInvalidPage),
		errors.Is(err, service.ErrEmptyID),
		errors.Is(err, service.ErrEmptyCategoryName):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrUploadsDisabled),
		errors.Is(err, filter.ErrNotMounted):
		respondError(c, http.StatusServiceUnavailable, err.Error())
	default:
		respondError(c, http.StatusBadGateway, service.ErrorMessage(err))
	}
}

func stockIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid stock row index")
		return 0, false
	}
	return index, true
}

// respondError отправляет ответ об ошибке
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// formatValidationError форматирует ошибки валидации
func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			return validationErrors[0].Field() + " validation failed"
		}
	}
	return "Validation failed"
}
