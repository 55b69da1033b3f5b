package message

import (
	"time"

	"wanderlog/internal/dto/respond"
	"wanderlog/internal/model"
)

var timeNow = time.Now

func toMessageRespond(m *model.Message) respond.MessageRespond {
	r := respond.MessageRespond{
		Id:          m.Uuid,
		SenderId:    m.SenderId,
		ReceiverId:  m.ReceiverId,
		Body:        m.Body,
		MessageType: m.MessageType,
		Read:        m.IsRead,
		IsRequest:   m.IsRequest,
		CreatedAt:   m.CreatedAt,
	}
	if m.ReadAt.Valid {
		t := m.ReadAt.Time
		r.ReadAt = &t
	}
	if m.RequestStatus.Valid {
		status := m.RequestStatus.String
		r.RequestStatus = &status
	}
	return r
}

func toMessageList(msgs []model.Message) []respond.MessageRespond {
	list := make([]respond.MessageRespond, 0, len(msgs))
	for i := range msgs {
		list = append(list, toMessageRespond(&msgs[i]))
	}
	return list
}
