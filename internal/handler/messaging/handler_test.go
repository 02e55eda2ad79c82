package messaging

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treinasus/admin-api/internal/model"
)

func bindJSON(t *testing.T, body string, out interface{}) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c.ShouldBindJSON(out)
}

func TestSendMessageRequestSenderOptional(t *testing.T) {
	var req model.SendMessageRequest
	require.NoError(t, bindJSON(t, `{"content":"olá"}`, &req))

	assert.Equal(t, "olá", req.Content)
	assert.Empty(t, req.Sender)
}

func TestSendMessageRequestRejectsUnknownSender(t *testing.T) {
	var req model.SendMessageRequest
	assert.Error(t, bindJSON(t, `{"content":"olá","sender":"robot"}`, &req))
}

func TestStartConversationRequestRequiresPhone(t *testing.T) {
	var req model.StartConversationRequest
	assert.Error(t, bindJSON(t, `{"display_name":"Ana"}`, &req))

	require.NoError(t, bindJSON(t, `{"phone":"+5511999990000"}`, &req))
	assert.Equal(t, "+5511999990000", req.Phone)
}
