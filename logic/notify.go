package logic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"unihub/dao/mysql"
	"unihub/models"
	"unihub/pkg/email"
	"unihub/pkg/errorx"
	"unihub/pkg/mq"
	"unihub/pkg/snowflake"

	"go.uber.org/zap"
)

// Publisher 邀请通知的投递端，生产环境是 RabbitMQ 生产者
type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}

var producer Publisher

// SetProducer 装配消息生产者，不装配时邀请只落库不发信
func SetProducer(p Publisher) {
	producer = p
}

// EmailPayload 经消息队列投递的发信任务
type EmailPayload struct {
	InvitationID int64  `json:"invitation_id"`
	To           string `json:"to"`
	Subject      string `json:"subject"`
	HTML         string `json:"html"`
}

// InviteToCommunity 邀请加入社区，成员即可发起
// 邀请行同步落库；邮件经 MQ 异步投递，发布失败只记日志，
// 邀请操作本身照样成功（发信全链路尽力而为）
func InviteToCommunity(inviterID, communityID int64, p *models.ParamInvite, joinURL string) (*models.Invitation, error) {
	community, err := mysql.GetCommunityByID(communityID)
	if err != nil {
		return nil, err
	}
	if community == nil {
		return nil, errorx.ErrNotFound
	}
	if !authority.Resolve(community, inviterID).IsMember {
		return nil, errorx.ErrPermission
	}

	inv := &models.Invitation{
		ID:           snowflake.GenID(),
		CommunityID:  communityID,
		InviterID:    inviterID,
		InviteeEmail: p.Email,
		Message:      p.Message,
		Status:       models.StatusPending,
	}
	if err := mysql.CreateInvitation(inv); err != nil {
		return nil, err
	}

	if producer == nil {
		return inv, nil
	}

	inviterName := ""
	if inviter, err := mysql.GetUserByID(inviterID); err == nil {
		inviterName = inviter.Username
	}
	payload := EmailPayload{
		InvitationID: inv.ID,
		To:           p.Email,
		Subject:      fmt.Sprintf("邀请您加入社区 %s", community.Name),
		HTML:         email.InvitationHTML(inviterName, community.Name, p.Message, joinURL),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return inv, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := producer.Publish(ctx, body); err != nil {
		zap.L().Warn("publish invitation email failed",
			zap.Int64("invitation_id", inv.ID), zap.Error(err))
	}
	return inv, nil
}

// StartEmailWorker 启动发信消费者
// 发送失败也 Ack：邀请邮件丢了可以重发，不值得积压队列
func StartEmailWorker(consumer *mq.Consumer, cfg email.SMTPConfig) error {
	deliveries, err := consumer.Consume()
	if err != nil {
		return fmt.Errorf("start email consumer failed: %w", err)
	}

	go func() {
		for d := range deliveries {
			var payload EmailPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				zap.L().Warn("invalid email payload", zap.Error(err))
				_ = d.Ack(false)
				continue
			}
			if err := email.Send(cfg, payload.To, payload.Subject, payload.HTML); err != nil {
				zap.L().Warn("send invitation email failed",
					zap.Int64("invitation_id", payload.InvitationID), zap.Error(err))
				_ = d.Ack(false)
				continue
			}
			if err := mysql.MarkInvitationSent(payload.InvitationID); err != nil {
				zap.L().Warn("mark invitation sent failed",
					zap.Int64("invitation_id", payload.InvitationID), zap.Error(err))
			}
			_ = d.Ack(false)
		}
		zap.L().Info("email worker stopped")
	}()
	return nil
}
