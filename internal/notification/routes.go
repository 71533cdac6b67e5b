package notification

import (
	httpmodule "leadportal_backend/internal/http"
	"leadportal_backend/internal/notification/handler"
)

// RegisterRoutes mounts the custom broadcast endpoint on the admin group.
// The original dashboard exposed it unauthenticated; restricting it to
// admins is deliberate.
func (m *Module) RegisterRoutes(ctx *httpmodule.RouterContext) {
	h := handler.New(m.engine)
	ctx.Admin.POST("/custom-fcm", h.Broadcast)
}
