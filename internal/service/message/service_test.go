package message

import (
	"context"
	"strings"
	"sync"
	"testing"

	"wanderlog/internal/dao/mysql/dbtest"
	"wanderlog/internal/dao/mysql/repository"
	"wanderlog/internal/dto/respond"
	"wanderlog/internal/infrastructure/mq"
	"wanderlog/internal/model"
	"wanderlog/internal/service/relation"
	"wanderlog/pkg/enum/message_request/request_status_enum"
	"wanderlog/pkg/enum/user_info/user_status_enum"
	"wanderlog/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []mq.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e mq.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

type fixture struct {
	db    *gorm.DB
	svc   *Service
	repos *repository.Repositories
	pub   *recordingPublisher
}

func newFixture(t *testing.T, users ...string) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	repos := repository.NewRepositories(db)
	for _, id := range users {
		require.NoError(t, repos.User.Create(context.Background(), &model.UserInfo{
			Uuid: id, Username: strings.ToLower(id), Nickname: id, RawPassword: "secret123",
		}))
	}
	pub := &recordingPublisher{}
	svc := NewMessageService(repos, relation.NewRelationService(repos, nil), pub, Options{})
	return &fixture{db: db, svc: svc, repos: repos, pub: pub}
}

func (f *fixture) follow(t *testing.T, from, to string) {
	t.Helper()
	require.NoError(t, f.repos.Follow.Create(context.Background(), from, to))
}

func (f *fixture) request(t *testing.T, sender, receiver string) *model.MessageRequest {
	t.Helper()
	req, err := f.repos.MessageRequest.FindBySenderAndReceiver(context.Background(), sender, receiver)
	require.NoError(t, err)
	return req
}

func (f *fixture) send(t *testing.T, from, to, body string) bool {
	t.Helper()
	res, err := f.svc.Send(context.Background(), from, to, body, "")
	require.NoError(t, err)
	return res.IsRequest
}

func TestSendValidationOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "A", "B", "Z")
	require.NoError(t, f.repos.User.UpdateStatus(ctx, "Z", user_status_enum.DISABLE))

	cases := []struct {
		name       string
		receiver   string
		body       string
		msgType    string
		expectCode int
	}{
		{"missing receiver", "", "hi", "", errorx.CodeInvalidParam},
		{"blank body", "B", "   ", "", errorx.CodeInvalidParam},
		{"too long", "B", strings.Repeat("x", 1001), "", errorx.CodeInvalidParam},
		{"bad type", "B", "hi", "video", errorx.CodeInvalidParam},
		{"unknown receiver", "nobody", "hi", "", errorx.CodeNotFound},
		{"inactive receiver", "Z", "hi", "", errorx.CodeNotFound},
		{"self", "A", "hi", "", errorx.CodeInvalidParam},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Send(ctx, "A", tc.receiver, tc.body, tc.msgType)
			assert.Equal(t, tc.expectCode, errorx.GetCode(err))
		})
	}

	res, err := f.svc.Send(ctx, "A", "B", "  "+strings.Repeat("é", 1000)+"  ", "")
	require.NoError(t, err)
	assert.Equal(t, 1000, len([]rune(res.Message.Body)))
	assert.Equal(t, "text", res.Message.MessageType)
}

// A 与 B 非互关：第一条消息被拦截，建立 pending 请求；第二条累加
func TestSendCreatesThenAccumulatesRequest(t *testing.T) {
	f := newFixture(t, "A", "B")

	assert.True(t, f.send(t, "A", "B", "hi"))
	req := f.request(t, "A", "B")
	assert.Equal(t, request_status_enum.PENDING, req.Status)
	assert.Equal(t, 1, req.MessageCount)
	assert.NotEmpty(t, req.FirstMessageId)
	assert.Equal(t, req.FirstMessageId, req.LastMessageId)

	requests, err := f.svc.GetRequestsForUser(context.Background(), "B")
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, "A", requests[0].Sender.Uuid)

	assert.True(t, f.send(t, "A", "B", "still there?"))
	updated := f.request(t, "A", "B")
	assert.Equal(t, req.ID, updated.ID)
	assert.Equal(t, 2, updated.MessageCount)
	assert.Equal(t, "still there?", updated.LastMessage)
	assert.Equal(t, req.FirstMessageId, updated.FirstMessageId)
	assert.NotEqual(t, req.LastMessageId, updated.LastMessageId)
	assert.False(t, updated.LastMessageTime.Before(req.LastMessageTime))

	assert.Equal(t, []string{mq.EventRequestCreated, mq.EventRequestUpdated}, f.pub.types())
}

func TestSendOneWayFollowIsStillGated(t *testing.T) {
	f := newFixture(t, "A", "B")
	f.follow(t, "A", "B")
	assert.True(t, f.send(t, "A", "B", "hi"))
}

func TestOpeningConversationLeavesRequestUnread(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "A", "B")
	require.True(t, f.send(t, "A", "B", "hi"))

	n, err := f.svc.MarkAllAsRead(ctx, "B", "A")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.svc.AcceptRequest(ctx, "B", "A")
	require.NoError(t, err)
	unread, err := f.svc.GetUnreadCount(ctx, "B", "A")
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)
}

func TestAcceptReleasesRequestMessages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "A", "B")
	f.send(t, "A", "B", "hi")
	f.send(t, "A", "B", "still there?")

	n, err := f.svc.AcceptRequest(ctx, "B", "A")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, request_status_enum.ACCEPTED, f.request(t, "A", "B").Status)

	page, err := f.svc.GetConversation(ctx, "B", "A", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "hi", page.Messages[0].Body)
	assert.Equal(t, "still there?", page.Messages[1].Body)
	for _, m := range page.Messages {
		assert.False(t, m.IsRequest)
		require.NotNil(t, m.RequestStatus)
		assert.Equal(t, request_status_enum.ACCEPTED, *m.RequestStatus)
	}

	pending, err := f.svc.GetRequestMessages(ctx, "A", "B")
	require.NoError(t, err)
	assert.Empty(t, pending)

	// 已接受的请求不再拦截，也不再累加
	assert.False(t, f.send(t, "A", "B", "thanks"))
	assert.Equal(t, 2, f.request(t, "A", "B").MessageCount)

	_, err = f.svc.AcceptRequest(ctx, "B", "A")
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestDeclineBlocksSender(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "A", "B")
	f.send(t, "A", "B", "hi")
	f.send(t, "A", "B", "still there?")

	n, err := f.svc.DeclineRequest(ctx, "B", "A")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	before, err := f.svc.GetRequestMessages(ctx, "A", "B")
	require.NoError(t, err)
	assert.Empty(t, before)

	_, err = f.svc.Send(ctx, "A", "B", "please?", "")
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))

	var total int64
	require.NoError(t, f.db.Unscoped().Model(&model.Message{}).Count(&total).Error)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, 2, f.request(t, "A", "B").MessageCount)

	_, err = f.svc.DeclineRequest(ctx, "B", "A")
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
	_, err = f.svc.AcceptRequest(ctx, "B", "A")
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))

	// 拒绝只影响 A -> B 方向
	assert.True(t, f.send(t, "B", "A", "sorry"))
}

func TestMutualFollowersSkipRequests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "C", "D")
	f.follow(t, "C", "D")
	f.follow(t, "D", "C")

	assert.False(t, f.send(t, "C", "D", "hey"))
	_, err := f.repos.MessageRequest.FindBySenderAndReceiver(ctx, "C", "D")
	assert.True(t, errorx.IsNotFound(err))

	page, err := f.svc.GetConversation(ctx, "D", "C", 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Nil(t, page.Messages[0].RequestStatus)
	assert.Equal(t, []string{mq.EventMessageSent}, f.pub.types())
}

func TestConcurrentFirstSendsShareOneRequest(t *testing.T) {
	f := newFixture(t, "E", "F")

	var wg sync.WaitGroup
	results := make([]bool, 2)
	errs := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := f.svc.Send(context.Background(), "E", "F", "hello", "")
			errs[i] = err
			if err == nil {
				results[i] = res.IsRequest
			}
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.True(t, results[i])
	}
	var count int64
	require.NoError(t, f.db.Model(&model.MessageRequest{}).
		Where("sender_id = ? AND receiver_id = ?", "E", "F").Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, 2, f.request(t, "E", "F").MessageCount)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "A", "B", "C")
	for _, pair := range [][2]string{{"A", "B"}, {"B", "A"}, {"C", "B"}, {"B", "C"}} {
		f.follow(t, pair[0], pair[1])
	}
	f.send(t, "A", "B", "1")
	f.send(t, "A", "B", "2")
	f.send(t, "C", "B", "3")

	total, err := f.svc.GetUnreadCount(ctx, "B", "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	n, err := f.svc.MarkAllAsRead(ctx, "B", "A")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	fromA, err := f.svc.GetUnreadCount(ctx, "B", "A")
	require.NoError(t, err)
	assert.Zero(t, fromA)
	total, err = f.svc.GetUnreadCount(ctx, "B", "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	n, err = f.svc.MarkAllAsRead(ctx, "B", "A")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.svc.MarkAllAsRead(ctx, "B", "")
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestRequestMessagesDoNotCountAsUnread(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "A", "B")
	f.send(t, "A", "B", "gated")

	n, err := f.svc.GetUnreadCount(ctx, "B", "")
	require.NoError(t, err)
	assert.Zero(t, n)

	pending, err := f.svc.CountPendingRequests(ctx, "B")
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending)
}

func TestDeletedMessagesAreInvisible(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "A", "B")
	f.follow(t, "A", "B")
	f.follow(t, "B", "A")

	res, err := f.svc.Send(ctx, "A", "B", "oops", "")
	require.NoError(t, err)
	f.send(t, "A", "B", "keep")

	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(f.svc.DeleteMessage(ctx, "B", res.Message.Id)))
	require.NoError(t, f.svc.DeleteMessage(ctx, "A", res.Message.Id))
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(f.svc.DeleteMessage(ctx, "A", res.Message.Id)))

	page, err := f.svc.GetConversation(ctx, "A", "B", 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "keep", page.Messages[0].Body)
	assert.EqualValues(t, 1, page.Pagination.Total)

	n, err := f.svc.GetUnreadCount(ctx, "B", "A")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestGetConversationPagination(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "A", "B")
	f.follow(t, "A", "B")
	f.follow(t, "B", "A")
	for _, body := range []string{"1", "2", "3", "4", "5"} {
		f.send(t, "A", "B", body)
	}

	page, err := f.svc.GetConversation(ctx, "B", "A", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"4", "5"}, bodies(page.Messages))
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasMore)

	page, err = f.svc.GetConversation(ctx, "B", "A", 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, bodies(page.Messages))
	assert.False(t, page.Pagination.HasMore)

	page, err = f.svc.GetConversation(ctx, "B", "A", 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, 100, page.Pagination.Limit)
}

func TestGetConversations(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, "A", "B", "C", "D")
	for _, pair := range [][2]string{{"A", "B"}, {"B", "A"}, {"A", "C"}, {"C", "A"}} {
		f.follow(t, pair[0], pair[1])
	}
	f.send(t, "B", "A", "from b")
	f.send(t, "A", "C", "to c")
	f.send(t, "C", "A", "from c")
	f.send(t, "D", "A", "gated")

	list, err := f.svc.GetConversations(ctx, "A")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "C", list[0].Partner.Uuid)
	assert.Equal(t, "from c", list[0].LastMessage.Body)
	assert.EqualValues(t, 1, list[0].UnreadCount)
	assert.Equal(t, "B", list[1].Partner.Uuid)

	empty, err := f.svc.GetConversations(ctx, "D")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestConversationStateFlags(t *testing.T) {
	for _, state := range []ConversationState{StateMutual, StateAccepted} {
		msg := &model.Message{}
		state.applyTo(msg)
		assert.False(t, msg.IsRequest, state.String())
		assert.False(t, msg.RequestStatus.Valid, state.String())
	}
	msg := &model.Message{}
	StatePendingRequest.applyTo(msg)
	assert.True(t, msg.IsRequest)
	assert.Equal(t, request_status_enum.PENDING, msg.RequestStatus.String)

	assert.False(t, StateDeclined.canWrite())
	assert.False(t, StateNone.canWrite())
	assert.Equal(t, StateNone, stateOfRequest(nil))
}

func bodies(msgs []respond.MessageRespond) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Body)
	}
	return out
}
