package content

// Fixed placeholder vocabulary used when the underlying provider comes back
// empty. Content failures must never abort a generation run.
var (
	fallbackCompanies = []string{"AeroSync Inc.", "CloudLayer Inc.", "DataPulse Inc.", "NexGen SaaS Inc.", "Vertex Solutions Inc."}
	fallbackNames     = []string{"Alex Morgan", "Jordan Lee", "Sam Rivera", "Casey Kim", "Taylor Brooks"}
	fallbackTitles    = []string{"Software Engineer", "Product Manager", "QA Analyst", "Designer", "Data Analyst"}
	fallbackWords     = []string{"alpha", "beta", "gamma", "delta", "omega"}
	fallbackSentence  = "Placeholder text generated as a local fallback."
)

// Fallback wraps a Source and substitutes placeholder values for any empty
// draw, cycling through the fixed lists.
type Fallback struct {
	Inner Source

	companies cycler
	names     cycler
	titles    cycler
	words     cycler
}

// WithFallback wraps src so that every method is guaranteed non-empty.
func WithFallback(src Source) *Fallback {
	return &Fallback{
		Inner:     src,
		companies: cycler{items: fallbackCompanies},
		names:     cycler{items: fallbackNames},
		titles:    cycler{items: fallbackTitles},
		words:     cycler{items: fallbackWords},
	}
}

type cycler struct {
	items []string
	next  int
}

func (c *cycler) take() string {
	v := c.items[c.next%len(c.items)]
	c.next++
	return v
}

func orElse(v string, alt func() string) string {
	if v != "" {
		return v
	}
	return alt()
}

func (s *Fallback) CompanyName() string {
	return orElse(s.Inner.CompanyName(), s.companies.take)
}

func (s *Fallback) FullName() string {
	return orElse(s.Inner.FullName(), s.names.take)
}

func (s *Fallback) JobTitle() string {
	return orElse(s.Inner.JobTitle(), s.titles.take)
}

func (s *Fallback) TeamName() string {
	return orElse(s.Inner.TeamName(), func() string { return "Team " + s.words.take() })
}

func (s *Fallback) ProjectName() string {
	return orElse(s.Inner.ProjectName(), func() string { return "Project " + s.words.take() })
}

func (s *Fallback) ProjectDescription() string {
	return orElse(s.Inner.ProjectDescription(), func() string { return fallbackSentence })
}

func (s *Fallback) TaskName() string {
	return orElse(s.Inner.TaskName(), func() string { return "Task " + s.words.take() })
}

// TaskDescription passes empty through: an empty description is a valid tier
// of the underlying generator, not a failure.
func (s *Fallback) TaskDescription(name string) string {
	return s.Inner.TaskDescription(name)
}

func (s *Fallback) Sentence() string {
	return orElse(s.Inner.Sentence(), func() string { return fallbackSentence })
}

func (s *Fallback) Word() string {
	return orElse(s.Inner.Word(), s.words.take)
}

func (s *Fallback) FileName(ext string) string {
	return orElse(s.Inner.FileName(ext), func() string { return "document_" + s.words.take() + "." + ext })
}
