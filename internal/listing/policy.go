package listing

import "github.com/njprem/Desa_Wisata_APP_BackEnd/internal/domain"

// StatusPolicy lists, per current status, the statuses an admin may move an
// item to from a list screen. A zero policy allows nothing.
type StatusPolicy struct {
	Transitions map[string][]string
}

func (p StatusPolicy) Targets(from string) []string {
	return append([]string(nil), p.Transitions[from]...)
}

func (p StatusPolicy) Allows(from, to string) bool {
	for _, target := range p.Transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// UmkmPolicy is the review workflow: pending listings are verified or rejected
// once, after which no status controls are offered.
func UmkmPolicy() StatusPolicy {
	transitions := make(map[string][]string, len(domain.UmkmTransitions))
	for from, targets := range domain.UmkmTransitions {
		out := make([]string, 0, len(targets))
		for _, t := range targets {
			out = append(out, string(t))
		}
		transitions[string(from)] = out
	}
	return StatusPolicy{Transitions: transitions}
}

func TourismStatuses() []string {
	out := make([]string, 0, len(domain.TourismStatuses))
	for _, s := range domain.TourismStatuses {
		out = append(out, string(s))
	}
	return out
}

func UmkmStatuses() []string {
	out := make([]string, 0, len(domain.UmkmStatuses))
	for _, s := range domain.UmkmStatuses {
		out = append(out, string(s))
	}
	return out
}

func ArticleStatuses() []string {
	return []string{string(domain.ArticleStatusDraft), string(domain.ArticleStatusPublished)}
}

// NewTourism builds the tourism list screen. Destinations have no status
// actions on the list; they are edited on their own page.
func NewTourism(remote Remote[domain.TourismDestination], opts Options) *Controller[domain.TourismDestination] {
	if opts.Resource == "" {
		opts.Resource = "tourism destination"
	}
	opts.Statuses = TourismStatuses()
	opts.Policy = StatusPolicy{}
	return New[domain.TourismDestination](remote, opts)
}

func NewUmkm(remote Remote[domain.UmkmProduct], opts Options) *Controller[domain.UmkmProduct] {
	if opts.Resource == "" {
		opts.Resource = "UMKM"
	}
	opts.Statuses = UmkmStatuses()
	opts.Policy = UmkmPolicy()
	return New[domain.UmkmProduct](remote, opts)
}

func NewArticles(remote Remote[domain.Article], opts Options) *Controller[domain.Article] {
	if opts.Resource == "" {
		opts.Resource = "article"
	}
	opts.Statuses = ArticleStatuses()
	opts.Policy = StatusPolicy{Transitions: map[string][]string{
		string(domain.ArticleStatusDraft):     {string(domain.ArticleStatusPublished)},
		string(domain.ArticleStatusPublished): {string(domain.ArticleStatusDraft)},
	}}
	return New[domain.Article](remote, opts)
}
