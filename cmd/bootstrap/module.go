package bootstrap

import (
	"couponkeeper/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	MailerModule,
	LockerModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.HandlerModule,
)
