package audit

import (
	"github.com/m04kA/SMC-EventBookingService/pkg/dbmetrics"
)

type DBExecutor = dbmetrics.DBExecutor
