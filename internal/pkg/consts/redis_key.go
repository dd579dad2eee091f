package consts

const (
	TokenBlacklistKey = "auth:blacklist:"
)

const (
	DreamAnalysisLock       = "lock:dream:analysis:"
	CounterReconcileJobLock = "lock:job:counter_reconcile"
)
