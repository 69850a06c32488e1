package domain

const (
	RoleBuyer  = "BUYER"
	RoleVendor = "VENDOR"
	RoleAdmin  = "ADMIN"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	LeadStatusAvailable = "AVAILABLE"
	LeadStatusSold      = "SOLD"
	LeadStatusClosed    = "CLOSED"
)

const (
	PurchaseModeAuto      = "AUTO"
	PurchaseModeUseWeekly = "USE_WEEKLY"
	PurchaseModeBuyExtra  = "BUY_EXTRA"
	PurchaseModePaid      = "PAID"
)

const (
	ContactTypeCall     = "CALL"
	ContactTypeWhatsapp = "WHATSAPP"
	ContactTypeEmail    = "EMAIL"
)

const (
	ContactStatusPending   = "PENDING"
	ContactStatusContacted = "CONTACTED"
	ContactStatusConverted = "CONVERTED"
)

const (
	SubscriptionStatusActive    = "ACTIVE"
	SubscriptionStatusExpired   = "EXPIRED"
	SubscriptionStatusCancelled = "CANCELLED"
)

const (
	ReferralStatusLinked    = "LINKED"
	ReferralStatusQualified = "QUALIFIED"
	ReferralStatusRewarded  = "REWARDED"
	ReferralStatusRejected  = "REJECTED"
)

const (
	CashoutStatusPending  = "PENDING"
	CashoutStatusPaid     = "PAID"
	CashoutStatusRejected = "REJECTED"
)

// Wallet ledger entry types. The ledger is append-only; wallet balances
// must be reconcilable from it.
const (
	LedgerEntryCredit  = "CREDIT"  // reward accrued into pending
	LedgerEntryMature  = "MATURE"  // pending moved to available
	LedgerEntryHold    = "HOLD"    // available reserved for a cashout
	LedgerEntryRelease = "RELEASE" // hold returned after rejection
	LedgerEntryDebit   = "DEBIT"   // reserved paid out
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusExpired   = "EXPIRED"
)

const (
	PaymentPurposeLeadPurchase = "LEAD_PURCHASE"
	PaymentPurposeSubscription = "SUBSCRIPTION"
)
