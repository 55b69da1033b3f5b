package message

import (
	"context"
	"sort"

	"wanderlog/internal/dto/respond"
	"wanderlog/internal/model"
	"wanderlog/pkg/errorx"

	"go.uber.org/zap"
)

// GetConversation userId 与 partnerId 之间的普通消息分页
// 库里按时间倒序取一页，返回前翻转为正序
func (s *Service) GetConversation(ctx context.Context, userId, partnerId string, page, limit int) (*respond.ConversationPageRespond, error) {
	if partnerId == "" {
		return nil, errorx.New(errorx.CodeInvalidParam, "userId is required")
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.opts.DefaultPageLimit
	}
	if limit > s.opts.MaxPageLimit {
		limit = s.opts.MaxPageLimit
	}

	msgs, err := s.repos.Message.FindConversation(ctx, userId, partnerId, (page-1)*limit, limit)
	if err != nil {
		return nil, serverBusy("find conversation failed", err)
	}
	total, err := s.repos.Message.CountConversation(ctx, userId, partnerId)
	if err != nil {
		return nil, serverBusy("count conversation failed", err)
	}

	list := make([]respond.MessageRespond, len(msgs))
	for i := range msgs {
		list[len(msgs)-1-i] = toMessageRespond(&msgs[i])
	}
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &respond.ConversationPageRespond{
		Messages: list,
		Pagination: respond.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    int64(page*limit) < total,
		},
	}, nil
}

// GetRequestMessages senderId 发给 receiverId 的请求消息，按时间正序
func (s *Service) GetRequestMessages(ctx context.Context, senderId, receiverId string) ([]respond.MessageRespond, error) {
	msgs, err := s.repos.Message.FindRequestMessages(ctx, senderId, receiverId)
	if err != nil {
		return nil, serverBusy("find request messages failed", err)
	}
	return toMessageList(msgs), nil
}

// GetUnreadCount 未读普通消息数，fromUserId 为空时统计所有发送者
func (s *Service) GetUnreadCount(ctx context.Context, userId, fromUserId string) (int64, error) {
	n, err := s.repos.Message.CountUnread(ctx, userId, fromUserId)
	if err != nil {
		return 0, serverBusy("count unread failed", err)
	}
	return n, nil
}

// MarkAllAsRead 标记 senderId 发给 receiverId 的消息已读，返回本次更新的条数
func (s *Service) MarkAllAsRead(ctx context.Context, receiverId, senderId string) (int64, error) {
	if senderId == "" {
		return 0, errorx.New(errorx.CodeInvalidParam, "userId is required")
	}
	n, err := s.repos.Message.MarkAllAsRead(ctx, receiverId, senderId, timeNow())
	if err != nil {
		return 0, serverBusy("mark messages read failed", err)
	}
	return n, nil
}

// GetRequestsForUser 发给 receiverId 的待处理请求，附带发起者资料，最近的在前
func (s *Service) GetRequestsForUser(ctx context.Context, receiverId string) ([]respond.MessageRequestRespond, error) {
	reqs, err := s.repos.MessageRequest.FindPendingForReceiver(ctx, receiverId)
	if err != nil {
		return nil, serverBusy("find pending requests failed", err)
	}
	senderIds := make([]string, 0, len(reqs))
	for _, req := range reqs {
		senderIds = append(senderIds, req.SenderId)
	}
	senders, err := s.usersById(ctx, senderIds)
	if err != nil {
		return nil, err
	}

	list := make([]respond.MessageRequestRespond, 0, len(reqs))
	for _, req := range reqs {
		sender, ok := senders[req.SenderId]
		if !ok {
			continue
		}
		list = append(list, respond.MessageRequestRespond{
			Id:              req.ID,
			Sender:          sender,
			Status:          req.Status,
			MessageCount:    req.MessageCount,
			LastMessage:     req.LastMessage,
			LastMessageTime: req.LastMessageTime,
			CreatedAt:       req.CreatedAt,
		})
	}
	return list, nil
}

// CountPendingRequests 待处理请求数
func (s *Service) CountPendingRequests(ctx context.Context, receiverId string) (int64, error) {
	n, err := s.repos.MessageRequest.CountPendingForReceiver(ctx, receiverId)
	if err != nil {
		return 0, serverBusy("count pending requests failed", err)
	}
	return n, nil
}

// GetConversations 会话列表：每个对端一项，带最后一条消息与未读数，最近的在前
// 对端账号已禁用的会话不返回
func (s *Service) GetConversations(ctx context.Context, userId string) ([]respond.ConversationRespond, error) {
	rows, err := s.repos.Message.FindLatestPerPartner(ctx, userId)
	if err != nil {
		return nil, serverBusy("find conversations failed", err)
	}
	if len(rows) == 0 {
		return []respond.ConversationRespond{}, nil
	}

	ids := make([]uint, 0, len(rows))
	partnerIds := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.LastId)
		partnerIds = append(partnerIds, row.PartnerId)
	}
	msgs, err := s.repos.Message.FindByIds(ctx, ids)
	if err != nil {
		return nil, serverBusy("load last messages failed", err)
	}
	byId := make(map[uint]*model.Message, len(msgs))
	for i := range msgs {
		byId[msgs[i].ID] = &msgs[i]
	}
	partners, err := s.usersById(ctx, partnerIds)
	if err != nil {
		return nil, err
	}
	unread, err := s.repos.Message.CountUnreadBySender(ctx, userId)
	if err != nil {
		return nil, serverBusy("count unread by sender failed", err)
	}

	list := make([]respond.ConversationRespond, 0, len(rows))
	for _, row := range rows {
		partner, ok := partners[row.PartnerId]
		msg := byId[row.LastId]
		if !ok || msg == nil {
			continue
		}
		list = append(list, respond.ConversationRespond{
			Partner:     partner,
			LastMessage: toMessageRespond(msg),
			UnreadCount: unread[row.PartnerId],
		})
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].LastMessage, list[j].LastMessage
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		// 同一时刻按雪花 id 倒序
		if len(a.Id) != len(b.Id) {
			return len(a.Id) > len(b.Id)
		}
		return a.Id > b.Id
	})
	return list, nil
}

// DeleteMessage 软删除自己发出的消息
func (s *Service) DeleteMessage(ctx context.Context, userId, messageId string) error {
	msg, err := s.repos.Message.FindByUuid(ctx, messageId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "message not found")
		}
		return serverBusy("load message failed", err)
	}
	if msg.SenderId != userId {
		return errorx.New(errorx.CodeForbidden, "you can only delete your own messages")
	}
	if err := s.repos.Message.SoftDelete(ctx, messageId); err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeNotFound, "message not found")
		}
		return serverBusy("delete message failed", err)
	}
	return nil
}

func (s *Service) usersById(ctx context.Context, ids []string) (map[string]respond.UserBriefRespond, error) {
	users := make(map[string]respond.UserBriefRespond, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	list, err := s.repos.User.FindActiveByUuids(ctx, ids)
	if err != nil {
		zap.L().Error("load users failed", zap.Strings("ids", ids), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	for _, u := range list {
		users[u.Uuid] = respond.UserBriefRespond{
			Uuid:     u.Uuid,
			Username: u.Username,
			Nickname: u.Nickname,
			Avatar:   u.Avatar,
		}
	}
	return users, nil
}
