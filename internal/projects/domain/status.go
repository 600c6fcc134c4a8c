package domain

// Project lifecycle, in order. The labels are the persisted values and are
// kept in French for compatibility with the existing frontend and data.
const (
	StatusPending        = "en attente"
	StatusQuoted         = "devis_envoyé"
	StatusPaymentPending = "paiement_attente"
	StatusPaid           = "payé"
	StatusInProgress     = "en cours"
	StatusDone           = "terminé"
)

// Statuses lists every defined status, in lifecycle order.
var Statuses = []string{
	StatusPending,
	StatusQuoted,
	StatusPaymentPending,
	StatusPaid,
	StatusInProgress,
	StatusDone,
}

// ValidStatus reports whether s is one of the defined lifecycle values.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Editable reports whether owner field edits are still allowed.
func (p *Project) Editable() bool {
	return p.Status == StatusPending
}

// Active reports whether the project counts against the owner's quota.
func (p *Project) Active() bool {
	return p.Status != StatusDone
}
