package application

import (
	"github.com/eventd/backend/internal/application/event"
	"github.com/eventd/backend/internal/application/lifecycle"
	"github.com/eventd/backend/internal/application/notification"
	"github.com/google/wire"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	event.ProviderSet,
	notification.ProviderSet,
	lifecycle.ProviderSet,
)
