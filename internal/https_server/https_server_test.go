package https_server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"wanderlog/internal/config"
	"wanderlog/internal/dao/mysql/dbtest"
	"wanderlog/internal/dao/mysql/repository"
	"wanderlog/internal/dao/redis/redistest"
	"wanderlog/internal/handler"
	"wanderlog/internal/infrastructure/mq"
	"wanderlog/internal/service"
	"wanderlog/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type client struct {
	t      *testing.T
	engine *gin.Engine
}

type reply struct {
	Code int
	Body map[string]any
}

func (c *client) do(method, path, token string, body any, headers ...string) reply {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return reply{Code: w.Code, Body: out}
}

// signup 注册并登录，返回用户 id 与 access token
func (c *client) signup(username string) (string, string) {
	c.t.Helper()
	res := c.do(http.MethodPost, "/auth/register", "", map[string]string{
		"username": username, "password": "secret123", "nickname": username,
	})
	require.Equal(c.t, http.StatusCreated, res.Code, res.Body)
	id := res.Body["user"].(map[string]any)["uuid"].(string)

	res = c.do(http.MethodPost, "/auth/login", "", map[string]string{"username": username, "password": "secret123"})
	require.Equal(c.t, http.StatusOK, res.Code, res.Body)
	return id, res.Body["user"].(map[string]any)["accessToken"].(string)
}

func newClient(t *testing.T) *client {
	gin.SetMode(gin.TestMode)
	require.NoError(t, handler.InitTrans("en"))
	jwt.Init("server-test-secret", 10, 1)

	conf := &config.Config{}
	conf.AppName = "wanderlog-test"
	conf.MessageConfig = config.MessageConfig{SendRateLimit: 100, SendRateWindow: 60, IdempotencyTTL: 60}

	repos := repository.NewRepositories(dbtest.Open(t))
	cache := redistest.New()
	publisher := mq.NewChannelPublisher(16)
	t.Cleanup(func() { _ = publisher.Close() })

	svc := service.NewServices(repos, cache, publisher, conf.MessageConfig)
	return &client{t: t, engine: Init(conf, handler.NewHandlers(svc), cache)}
}

func TestMessageRequestLifecycle(t *testing.T) {
	c := newClient(t)
	alice, aliceToken := c.signup("alice")
	bob, bobToken := c.signup("bob")

	res := c.do(http.MethodPost, "/messages/send", aliceToken, map[string]string{"receiverId": bob, "message": "hi"})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, true, res.Body["isRequest"])
	c.do(http.MethodPost, "/messages/send", aliceToken, map[string]string{"receiverId": bob, "message": "still there?"})

	res = c.do(http.MethodGet, "/messages/requests", bobToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	requests := res.Body["requests"].([]any)
	require.Len(t, requests, 1)
	assert.EqualValues(t, 2, requests[0].(map[string]any)["messageCount"])

	res = c.do(http.MethodGet, "/messages/requests/count", bobToken, nil)
	assert.EqualValues(t, 1, res.Body["count"])

	res = c.do(http.MethodGet, "/messages/requests/"+alice, bobToken, nil)
	assert.Len(t, res.Body["messages"], 2)

	res = c.do(http.MethodGet, "/messages/unread/count", bobToken, nil)
	assert.EqualValues(t, 0, res.Body["unreadCount"])

	res = c.do(http.MethodPost, "/messages/requests/"+alice+"/accept", bobToken, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body)

	res = c.do(http.MethodGet, "/messages/unread/count?from="+alice, bobToken, nil)
	assert.EqualValues(t, 2, res.Body["unreadCount"])

	res = c.do(http.MethodGet, "/messages/"+alice+"?page=1&limit=10", bobToken, nil)
	require.Equal(t, http.StatusOK, res.Code)
	msgs := res.Body["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].(map[string]any)["body"])
	assert.Equal(t, false, msgs[0].(map[string]any)["isRequest"])
	assert.EqualValues(t, 2, res.Body["pagination"].(map[string]any)["total"])

	// 打开会话后已读
	res = c.do(http.MethodGet, "/messages/unread/count", bobToken, nil)
	assert.EqualValues(t, 0, res.Body["unreadCount"])

	res = c.do(http.MethodGet, "/messages/conversations", aliceToken, nil)
	require.Len(t, res.Body["conversations"], 1)

	res = c.do(http.MethodPost, "/messages/requests/"+alice+"/accept", bobToken, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestDeclinedSenderGets403(t *testing.T) {
	c := newClient(t)
	carol, carolToken := c.signup("carol")
	bob, bobToken := c.signup("bob")

	c.do(http.MethodPost, "/messages/send", carolToken, map[string]string{"receiverId": bob, "message": "hello"})
	res := c.do(http.MethodPost, "/messages/requests/"+carol+"/decline", bobToken, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body)

	res = c.do(http.MethodPost, "/messages/send", carolToken, map[string]string{"receiverId": bob, "message": "again"})
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, false, res.Body["success"])
	assert.Contains(t, res.Body["message"], "declined")

	res = c.do(http.MethodGet, "/messages/requests/"+carol, bobToken, nil)
	assert.Empty(t, res.Body["messages"])
}

func TestMutualExplorersMessageDirectly(t *testing.T) {
	c := newClient(t)
	cid, cToken := c.signup("chris")
	did, dToken := c.signup("dana")

	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/users/"+did+"/explore", cToken, nil).Code)
	res := c.do(http.MethodGet, "/users/"+did+"/friendship", cToken, nil)
	assert.Equal(t, false, res.Body["areFriends"])
	require.Equal(t, http.StatusOK, c.do(http.MethodPost, "/users/"+cid+"/explore", dToken, nil).Code)
	res = c.do(http.MethodGet, "/users/"+did+"/friendship", cToken, nil)
	assert.Equal(t, true, res.Body["areFriends"])

	res = c.do(http.MethodPost, "/messages/send", cToken, map[string]string{"receiverId": did, "message": "hey"})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, false, res.Body["isRequest"])

	res = c.do(http.MethodGet, "/users/"+did, cToken, nil)
	assert.EqualValues(t, 1, res.Body["user"].(map[string]any)["explorersCount"])

	data := c.do(http.MethodGet, "/messages/"+cid, dToken, nil).Body["messages"].([]any)
	id := data[0].(map[string]any)["id"].(string)
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodDelete, "/messages/"+id, dToken, nil).Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodDelete, "/messages/"+id, cToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/messages/"+id, cToken, nil).Code)
}

func TestSendValidationAndGuards(t *testing.T) {
	c := newClient(t)
	_, aliceToken := c.signup("alice")
	bob, _ := c.signup("bob")

	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/messages/conversations", "", nil).Code)

	res := c.do(http.MethodPost, "/messages/send", aliceToken, map[string]string{"message": "hi"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body["errors"], "receiverId")

	res = c.do(http.MethodPost, "/messages/send", aliceToken, map[string]string{"receiverId": "U-missing", "message": "hi"})
	assert.Equal(t, http.StatusNotFound, res.Code)

	body := map[string]string{"receiverId": bob, "message": "once"}
	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, "/messages/send", aliceToken, body, "Idempotency-Key", "k1").Code)
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/messages/send", aliceToken, body, "Idempotency-Key", "k1").Code)

	res = c.do(http.MethodPut, "/messages/mark-read/"+bob, aliceToken, nil)
	assert.EqualValues(t, 0, res.Body["updatedCount"])
}

func TestOperationalEndpoints(t *testing.T) {
	c := newClient(t)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", "", nil).Code)
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/metrics", "", nil).Code)
}
