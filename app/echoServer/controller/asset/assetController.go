package asset

import (
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"gamehub/app/echoServer/jwtx"
	"gamehub/model"
	"gamehub/service/apperr"
	assetsvc "gamehub/service/asset"

	"github.com/labstack/echo/v4"
)

type Controller struct {
	Svc assetsvc.Service
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

func uploadFile(fh *multipart.FileHeader) assetsvc.UploadFile {
	return assetsvc.UploadFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// POST /api/v1/assets/upload  (multipart form)
// @Summary Upload an asset file with metadata; lands as PENDING
func (h *Controller) Upload(c echo.Context) error {
	var req model.UploadAssetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid form"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error", "errors": err.Error()})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "file is required"})
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	res, err := h.Svc.Upload(c.Request().Context(), uid, req, uploadFile(fh))
	if err != nil {
		return h.fail(c, "asset upload", err)
	}
	return c.JSON(http.StatusCreated, res)
}

// GET /api/v1/assets/my-assets
func (h *Controller) Mine(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	res, err := h.Svc.Mine(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, "my assets", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": res})
}

// GET /api/v1/assets/public
func (h *Controller) Public(c echo.Context) error {
	res, err := h.Svc.Public(c.Request().Context())
	if err != nil {
		return h.fail(c, "public assets", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": res})
}

// GET /api/v1/assets/type/:type
func (h *Controller) ByType(c echo.Context) error {
	res, err := h.Svc.ByType(c.Request().Context(), c.Param("type"))
	if err != nil {
		return h.fail(c, "assets by type", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": res})
}

// GET /api/v1/assets/search?tag=
func (h *Controller) SearchByTag(c echo.Context) error {
	tag := c.QueryParam("tag")
	if tag == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "tag is required"})
	}
	res, err := h.Svc.SearchByTag(c.Request().Context(), tag)
	if err != nil {
		return h.fail(c, "search assets", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": res})
}

// GET /api/v1/assets/pending
func (h *Controller) Pending(c echo.Context) error {
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	res, err := h.Svc.Pending(c.Request().Context(), uid)
	if err != nil {
		return h.fail(c, "pending assets", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": res})
}

// PUT /api/v1/assets/:id/approve
func (h *Controller) Approve(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	uid, err := jwtx.UserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}

	res, err := h.Svc.Approve(c.Request().Context(), id, uid)
	if err != nil {
		return h.fail(c, "approve asset", err)
	}
	return c.JSON(http.StatusOK, res)
}

// PUT /api/v1/assets/:id/reject
func (h *Controller) Reject(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.RejectAssetReq
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

	res, err := h.Svc.Reject(c.Request().Context(), id, uid, req.Reason)
	if err != nil {
		return h.fail(c, "reject asset", err)
	}
	return c.JSON(http.StatusOK, res)
}
