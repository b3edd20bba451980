package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/volunteer-service/internal/notify"
	"github.com/spec-kit/volunteer-service/internal/service"
)

// StartNotificationWorker registers email handlers on the dispatcher.
func StartNotificationWorker(notificationService *service.NotificationService, mailer notify.Mailer, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification handlers registered", zap.String("mail_provider", mailer.Name()))
}
