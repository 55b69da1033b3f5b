// Package message 私信业务：发送时按互关关系决定是否拦截为消息请求，
// 接收者可接受或拒绝请求，以及会话、未读、请求列表等查询
package message

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"wanderlog/internal/dao/mysql/repository"
	"wanderlog/internal/dto/respond"
	"wanderlog/internal/infrastructure/metrics"
	"wanderlog/internal/infrastructure/mq"
	"wanderlog/internal/model"
	"wanderlog/pkg/constants"
	"wanderlog/pkg/enum/message/message_type_enum"
	"wanderlog/pkg/enum/message_request/request_status_enum"
	"wanderlog/pkg/errorx"
	"wanderlog/pkg/util/snowflake"

	"go.uber.org/zap"
)

// FriendshipChecker 互关判断，由 relation.Service 实现
type FriendshipChecker interface {
	AreFriends(ctx context.Context, userA, userB string) bool
}

// Options 分页参数，零值使用默认
type Options struct {
	DefaultPageLimit int
	MaxPageLimit     int
}

var (
	errRequestDeclined = errorx.New(errorx.CodeForbidden, "message request was declined")
	errRequestNotFound = errorx.New(errorx.CodeNotFound, "no pending message request from this user")
)

// Service 私信业务实现
type Service struct {
	repos     *repository.Repositories
	relation  FriendshipChecker
	publisher mq.EventPublisher
	opts      Options
}

func NewMessageService(repos *repository.Repositories, relation FriendshipChecker, publisher mq.EventPublisher, opts Options) *Service {
	if opts.DefaultPageLimit <= 0 {
		opts.DefaultPageLimit = constants.DEFAULT_PAGE_LIMIT
	}
	if opts.MaxPageLimit <= 0 {
		opts.MaxPageLimit = constants.MAX_PAGE_LIMIT
	}
	return &Service{repos: repos, relation: relation, publisher: publisher, opts: opts}
}

// Send 发送私信
// 校验顺序：必填与长度、类型、接收者存在且正常、不能发给自己
// 互关或请求已接受时直接写入；否则 upsert pending 请求并把消息标记为请求消息；
// 请求已被拒绝时返回 Forbidden，不写任何数据
func (s *Service) Send(ctx context.Context, senderId, receiverId, body, messageType string) (*respond.SendMessageRespond, error) {
	receiverId = strings.TrimSpace(receiverId)
	body = strings.TrimSpace(body)
	if receiverId == "" || body == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "receiverId and message are required")
	}
	if utf8.RuneCountInString(body) > constants.MESSAGE_MAX_LENGTH {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "message must be at most %d characters", constants.MESSAGE_MAX_LENGTH)
	}
	if messageType == "" {
		messageType = message_type_enum.TEXT
	}
	if !message_type_enum.IsValid(messageType) {
		return nil, errorx.New(errorx.CodeInvalidParam, "messageType must be one of text, image, file")
	}
	if _, err := s.repos.User.FindActiveByUuid(ctx, receiverId); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "recipient not found")
		}
		return nil, serverBusy("send: load receiver failed", err)
	}
	if senderId == receiverId {
		return nil, errorx.New(errorx.CodeInvalidParam, "cannot message yourself")
	}

	state, err := s.resolveState(ctx, senderId, receiverId)
	if err != nil {
		return nil, serverBusy("send: resolve conversation state failed", err)
	}
	if state == StateDeclined {
		return nil, errRequestDeclined
	}

	now := time.Now()
	msg := &model.Message{
		Uuid:        snowflake.GenerateIDString(),
		SenderId:    senderId,
		ReceiverId:  receiverId,
		Body:        body,
		MessageType: messageType,
	}
	requestCreated := false

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if state == StateNone || state == StatePendingRequest {
			// 以唯一索引上的 upsert 代替先查后写，再读回最新状态
			if err := tx.MessageRequest.UpsertPending(ctx, senderId, receiverId, body, now); err != nil {
				return err
			}
			req, err := tx.MessageRequest.FindBySenderAndReceiver(ctx, senderId, receiverId)
			if err != nil {
				return err
			}
			state = stateOfRequest(req)
			if !state.canWrite() {
				return errRequestDeclined
			}
			if state == StatePendingRequest {
				state.applyTo(msg)
				if err := tx.Message.Create(ctx, msg); err != nil {
					return err
				}
				firstMessageId := ""
				if req.FirstMessageId == "" {
					firstMessageId = msg.Uuid
					requestCreated = true
				}
				return tx.MessageRequest.UpdateMessagePointers(ctx, req.ID, firstMessageId, msg.Uuid)
			}
		}
		state.applyTo(msg)
		return tx.Message.Create(ctx, msg)
	})
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeForbidden {
			return nil, err
		}
		return nil, serverBusy("send: write message failed", err)
	}

	metrics.RecordMessageSent(msg.IsRequest)
	eventType := mq.EventMessageSent
	if msg.IsRequest {
		eventType = mq.EventRequestUpdated
		if requestCreated {
			eventType = mq.EventRequestCreated
			metrics.RecordRequest("created")
		}
	}
	s.publish(ctx, mq.Event{
		Type:       eventType,
		SenderId:   senderId,
		ReceiverId: receiverId,
		MessageId:  msg.Uuid,
		IsRequest:  msg.IsRequest,
		OccurredAt: now,
	})

	return &respond.SendMessageRespond{Message: toMessageRespond(msg), IsRequest: msg.IsRequest}, nil
}

// resolveState 互关优先，其次看请求记录
func (s *Service) resolveState(ctx context.Context, senderId, receiverId string) (ConversationState, error) {
	if s.relation.AreFriends(ctx, senderId, receiverId) {
		return StateMutual, nil
	}
	req, err := s.repos.MessageRequest.FindBySenderAndReceiver(ctx, senderId, receiverId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return StateNone, nil
		}
		return StateNone, err
	}
	return stateOfRequest(req), nil
}

// AcceptRequest 接受 senderId 发给 receiverId 的请求，请求消息转为普通消息
// 返回被放出的消息条数
func (s *Service) AcceptRequest(ctx context.Context, receiverId, senderId string) (int64, error) {
	return s.resolveRequest(ctx, receiverId, senderId, request_status_enum.ACCEPTED)
}

// DeclineRequest 拒绝请求，请求消息被软删除，此后 senderId 无法再给 receiverId 发消息
func (s *Service) DeclineRequest(ctx context.Context, receiverId, senderId string) (int64, error) {
	return s.resolveRequest(ctx, receiverId, senderId, request_status_enum.DECLINED)
}

func (s *Service) resolveRequest(ctx context.Context, receiverId, senderId, to string) (int64, error) {
	req, err := s.repos.MessageRequest.FindBySenderAndReceiver(ctx, senderId, receiverId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return 0, errRequestNotFound
		}
		return 0, serverBusy("load message request failed", err)
	}
	if req.Status != request_status_enum.PENDING {
		return 0, errRequestNotFound
	}

	now := time.Now()
	var affected int64
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		// 条件更新，并发的 accept/decline 只有一个生效
		n, err := tx.MessageRequest.TransitStatus(ctx, req.ID, request_status_enum.PENDING, to)
		if err != nil {
			return err
		}
		if n == 0 {
			return errRequestNotFound
		}
		if to == request_status_enum.ACCEPTED {
			affected, err = tx.Message.ReleaseRequestMessages(ctx, senderId, receiverId)
		} else {
			affected, err = tx.Message.DeclineRequestMessages(ctx, senderId, receiverId, now)
		}
		return err
	})
	if err != nil {
		if errorx.IsNotFound(err) {
			return 0, err
		}
		return 0, serverBusy("resolve message request failed", err)
	}

	metrics.RecordRequest(to)
	eventType := mq.EventRequestAccepted
	if to == request_status_enum.DECLINED {
		eventType = mq.EventRequestDeclined
	}
	s.publish(ctx, mq.Event{
		Type:       eventType,
		SenderId:   senderId,
		ReceiverId: receiverId,
		Count:      affected,
		OccurredAt: now,
	})
	return affected, nil
}

// publish 事务提交后投递事件，失败只记日志
func (s *Service) publish(ctx context.Context, event mq.Event) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.EVENT_PUBLISH_TIMEOUT)
	defer cancel()
	if err := s.publisher.Publish(ctx, event); err != nil {
		metrics.RecordPublishError(event.Type)
		zap.L().Warn("publish message event failed",
			zap.String("type", event.Type),
			zap.String("sender", event.SenderId),
			zap.String("receiver", event.ReceiverId),
			zap.Error(err),
		)
	}
}

func serverBusy(msg string, err error) error {
	zap.L().Error(msg, zap.Error(err))
	return errorx.ErrServerBusy
}
