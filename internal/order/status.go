package order

import (
	"wajba-be/internal/logger"

	"go.uber.org/zap"
)

// Backend wire codes as stored by the external source. picked_up covers the
// whole out_for_delivery window; the pickup/delivery split lives in the
// PickedUp flag, not in the code.
const (
	CodePending   = "pending"
	CodeConfirmed = "confirmed"
	CodePreparing = "preparing"
	CodeReady     = "ready"
	CodePickedUp  = "picked_up"
	CodeDelivered = "delivered"
	CodeCancelled = "cancelled"
)

var codeToStatus = map[string]Status{
	CodePending:   StatusNew,
	CodeConfirmed: StatusConfirmed,
	CodePreparing: StatusPreparing,
	CodeReady:     StatusReady,
	CodePickedUp:  StatusOutForDelivery,
	CodeDelivered: StatusCompleted,
	CodeCancelled: StatusCancelled,
}

var statusToCode = map[Status]string{
	StatusNew:            CodePending,
	StatusConfirmed:      CodeConfirmed,
	StatusPreparing:      CodePreparing,
	StatusReady:          CodeReady,
	StatusOutForDelivery: CodePickedUp,
	StatusCompleted:      CodeDelivered,
	StatusCancelled:      CodeCancelled,
}

// StatusFromBackend maps a backend code to its lifecycle status. Unknown
// codes fall open to StatusNew so upstream drift never blocks a read, but
// the drift is logged rather than swallowed silently.
func StatusFromBackend(code string) Status {
	if s, ok := codeToStatus[code]; ok {
		return s
	}
	logger.L().Warn("unknown backend order status, defaulting to new",
		zap.String("code", code),
	)
	return StatusNew
}

// BackendFromStatus is the exact inverse of StatusFromBackend over the known
// set; it is what every write path persists.
func BackendFromStatus(s Status) string {
	if code, ok := statusToCode[s]; ok {
		return code
	}
	return CodePending
}

// displayLabels are the localized strings the apps render per status.
var displayLabels = map[Status]string{
	StatusNew:            "جديد",
	StatusConfirmed:      "مؤكد",
	StatusPreparing:      "قيد التحضير",
	StatusReady:          "جاهز",
	StatusOutForDelivery: "جاري التوصيل",
	StatusCompleted:      "مكتمل",
	StatusCancelled:      "ملغي",
}

func (s Status) Label() string {
	if l, ok := displayLabels[s]; ok {
		return l
	}
	return displayLabels[StatusNew]
}

// Terminal reports whether no further transition is permitted.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
