package handlers

import (
	"net/http"
	"time"

	"press_admin/internal/models"
	"press_admin/internal/repository"
	"press_admin/internal/services"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	accountService   services.AccountService
	lifecycleService services.LifecycleService
	importService    services.ImportService
	exportService    services.ExportService
}

func NewAccountHandler(
	accountService services.AccountService,
	lifecycleService services.LifecycleService,
	importService services.ImportService,
	exportService services.ExportService,
) *AccountHandler {
	return &AccountHandler{
		accountService:   accountService,
		lifecycleService: lifecycleService,
		importService:    importService,
		exportService:    exportService,
	}
}

// AccountResponse is an account with its profile fields flattened.
type AccountResponse struct {
	ID            uint        `json:"id"`
	Username      string      `json:"username"`
	Email         string      `json:"email"`
	FirstName     string      `json:"first_name"`
	LastName      string      `json:"last_name"`
	Role          models.Role `json:"role"`
	ProfileKind   string      `json:"profile"`
	CustomerID    string      `json:"customer_id,omitempty"`
	ContactNumber string      `json:"contact_number"`
	PressName     string      `json:"press_name"`
	Category      string      `json:"category"`
	Password      string      `json:"password"`
	IsDeleted     bool        `json:"is_deleted"`
	DeletedAt     *time.Time  `json:"deleted_at"`
	DateJoined    time.Time   `json:"date_joined"`
}

func newAccountResponse(a *models.Account) AccountResponse {
	ref := services.ResolveProfile(a)
	return AccountResponse{
		ID:            a.ID,
		Username:      a.Username,
		Email:         a.Email,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Role:          a.RoleLabel(),
		ProfileKind:   ref.Kind.String(),
		CustomerID:    ref.CustomerID(),
		ContactNumber: ref.Contact(),
		PressName:     ref.PressName(),
		Category:      ref.Category(),
		Password:      ref.Credential(),
		IsDeleted:     a.IsDeleted,
		DeletedAt:     a.DeletedAt,
		DateJoined:    a.DateJoined,
	}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req services.CreateAccountInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	res, err := h.accountService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"account":    newAccountResponse(res.Account),
		"password":   res.Credential,
		"login_link": res.LoginURL,
	})
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	filter := repository.AccountFilter{
		IncludeDeleted: c.Query("include_deleted") == "true",
		Role:           models.Role(c.Query("role")),
	}
	if filter.Role != "" && !filter.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	accounts, err := h.accountService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, newAccountResponse(&accounts[i]))
	}
	c.JSON(http.StatusOK, gin.H{"accounts": out})
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	account, err := h.accountService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(account))
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateAccountInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	account, err := h.accountService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(account))
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
	}

	entry, err := h.lifecycleService.Delete(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User moved to recycle bin", "archive": entry})
}

func (h *AccountHandler) ImportAccounts(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	summary, err := h.importService.ImportAccounts(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

func (h *AccountHandler) ExportXLSX(c *gin.Context) {
	buf, err := h.exportService.AccountsXLSX(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="users.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *AccountHandler) ExportPDF(c *gin.Context) {
	buf, err := h.exportService.AccountsPDF(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="users.pdf"`)
	c.Data(http.StatusOK, pdfContentType, buf.Bytes())
}
