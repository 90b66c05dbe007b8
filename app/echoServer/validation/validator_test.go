package validation_test

import (
	"testing"

	"gamehub/app/echoServer/validation"
	"gamehub/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ echo.Validator = (*validation.RequestValidator)(nil)

func TestValidate_RequestTags(t *testing.T) {
	v := validation.New()

	ok := model.RegisterReq{
		FullName: "Dina",
		Email:    "dina@example.com",
		Password: "secret123",
		Role:     "DESIGNER",
	}
	require.NoError(t, v.Validate(&ok))

	bad := ok
	bad.Email = "not-an-email"
	assert.Error(t, v.Validate(&bad))

	verdict := model.DepositApprovalReq{Status: "PENDING"}
	assert.Error(t, v.Validate(&verdict), "oneof tag must refuse non-terminal statuses")
}
