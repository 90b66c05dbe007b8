package payment

import (
	"log/slog"
	"net/http"
	"strconv"

	"gamehub/app/echoServer/jwtx"
	"gamehub/model"
	"gamehub/service/apperr"
	paymentsvc "gamehub/service/payment"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc paymentsvc.Service
	Log *slog.Logger
}

func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch apperr.Code(err) {
	case apperr.ErrNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": err.Error()})
	case apperr.ErrPermissionDenied:
		return c.JSON(http.StatusForbidden, echo.Map{"message": err.Error()})
	case apperr.ErrValidation:
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	case apperr.ErrInvalidState:
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	default:
		h.Log.Error(op+" failed", "err", err, "req_id", c.Response().Header().Get(echo.HeaderXRequestID))
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "operation failed"})
	}
}

func pageParams(c echo.Context) (page, size int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	size, err := strconv.Atoi(c.QueryParam("size"))
	if err != nil || size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}
	return page, size
}

// POST /api/v1/payment-info
// @Summary Upsert the caller's payment info (bank account + QR)
// @Success 200 {object} model.PaymentInfo
// @Failure 400,401,500
func (h *Controller) SetMyPaymentInfo(c echo.Context) error {
	var req model.PaymentInfoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	info, err := h.Svc.SetUserPaymentInfo(c.Request().Context(), uid, req)
	if err != nil {
		return h.fail(c, "set payment info", err)
	}
	return c.JSON(http.StatusOK, info)
}

// POST /api/v1/payment-info/admin
// @Summary Upsert the global admin payment info shown to depositors
func (h *Controller) SetGlobalPaymentInfo(c echo.Context) error {
	var req model.PaymentInfoReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}

	info, err := h.Svc.SetGlobalPaymentInfo(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, "set global payment info", err)
	}
	return c.JSON(http.StatusOK, info)
}

// GET /api/v1/payment-info/my-info
func (h *Controller) MyPaymentInfo(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	info, err := h.Svc.UserPaymentInfo(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, "my payment info", err)
	}
	return c.JSON(http.StatusOK, info)
}

// GET /api/v1/payment-info
func (h *Controller) ActivePaymentInfo(c echo.Context) error {
	info, err := h.Svc.ActivePaymentInfo(c.Request().Context())
	if err != nil {
		return h.fail(c, "active payment info", err)
	}
	return c.JSON(http.StatusOK, info)
}

// POST /api/v1/deposits
// @Summary Create a deposit request (developer claims an external transfer)
func (h *Controller) CreateDeposit(c echo.Context) error {
	var req model.CreateDepositReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	row, err := h.Svc.CreateDeposit(c.Request().Context(), uid, req)
	if err != nil {
		return h.fail(c, "create deposit", err)
	}
	return c.JSON(http.StatusCreated, toResponse(row))
}

// GET /api/v1/deposits/my-requests?page&size
func (h *Controller) MyDeposits(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	page, size := pageParams(c)
	rows, total, err := h.Svc.UserDeposits(c.Request().Context(), uid, page, size)
	if err != nil {
		return h.fail(c, "my deposits", err)
	}
	return c.JSON(http.StatusOK, toPage(rows, page, size, total))
}

// GET /api/v1/deposits/pending?page&size
func (h *Controller) PendingDeposits(c echo.Context) error {
	page, size := pageParams(c)
	rows, total, err := h.Svc.PendingDeposits(c.Request().Context(), page, size)
	if err != nil {
		return h.fail(c, "pending deposits", err)
	}
	return c.JSON(http.StatusOK, toPage(rows, page, size, total))
}

// PUT /api/v1/deposits/:id/approve
// @Summary Apply the admin verdict; credits the balance on APPROVED
func (h *Controller) ApproveDeposit(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.DepositApprovalReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	adminID, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	row, err := h.Svc.Approve(c.Request().Context(), id, adminID, req)
	if err != nil {
		return h.fail(c, "approve deposit", err)
	}
	return c.JSON(http.StatusOK, toResponse(row))
}

// GET /api/v1/deposits/:id
func (h *Controller) DepositByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	role, err := jwtx.RoleFromContext(c)
	if err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}

	row, err := h.Svc.DepositByID(c.Request().Context(), id, uid, role)
	if err != nil {
		return h.fail(c, "deposit by id", err)
	}
	return c.JSON(http.StatusOK, toResponse(row))
}

// GET /api/v1/wallet/ledger
func (h *Controller) Ledger(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	rows, err := h.Svc.Ledger(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, "ledger", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
