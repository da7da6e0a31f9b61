package repo

import (
	"englishtalk/pkg/store"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	store.ProviderSet,

	NewSessionRepo,
	NewTeacherAvatarRepo,
)
