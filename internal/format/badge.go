package format

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/cristianoliveira/practice-alerts/internal/domain"
)

// BadgeContext is the data a badge template can reference.
type BadgeContext struct {
	TotalCount  int
	UnreadCount int
	ReadCount   int
	// Unread counts per priority.
	HighCount   int
	MediumCount int
	LowCount    int
	// Unread counts per kind.
	AlertCount   int
	ReviewCount  int
	TaskCount    int
	MessageCount int
	// Reviews still awaiting a decision, read or not.
	PendingCount int

	LatestTitle     string
	HighestPriority domain.Priority
}

// NewBadgeContext summarizes a newest-first feed.
func NewBadgeContext(notifs []domain.Notification) BadgeContext {
	ctx := BadgeContext{TotalCount: len(notifs)}
	for _, n := range notifs {
		if n.Status == domain.StatusPendingApproval {
			ctx.PendingCount++
		}
		if n.Read {
			ctx.ReadCount++
			continue
		}
		ctx.UnreadCount++
		if ctx.LatestTitle == "" {
			ctx.LatestTitle = n.Title
		}
		switch n.Priority {
		case domain.PriorityHigh:
			ctx.HighCount++
		case domain.PriorityMedium:
			ctx.MediumCount++
		case domain.PriorityLow:
			ctx.LowCount++
		}
		switch n.Kind {
		case domain.KindAlert:
			ctx.AlertCount++
		case domain.KindReview:
			ctx.ReviewCount++
		case domain.KindTask:
			ctx.TaskCount++
		case domain.KindMessage:
			ctx.MessageCount++
		}
	}
	switch {
	case ctx.HighCount > 0:
		ctx.HighestPriority = domain.PriorityHigh
	case ctx.MediumCount > 0:
		ctx.HighestPriority = domain.PriorityMedium
	case ctx.LowCount > 0:
		ctx.HighestPriority = domain.PriorityLow
	}
	return ctx
}

// Resolve returns the value of a template variable.
func (c BadgeContext) Resolve(name string) (string, error) {
	switch name {
	case "total-count":
		return strconv.Itoa(c.TotalCount), nil
	case "unread-count":
		return strconv.Itoa(c.UnreadCount), nil
	case "read-count":
		return strconv.Itoa(c.ReadCount), nil
	case "high-count":
		return strconv.Itoa(c.HighCount), nil
	case "medium-count":
		return strconv.Itoa(c.MediumCount), nil
	case "low-count":
		return strconv.Itoa(c.LowCount), nil
	case "alert-count":
		return strconv.Itoa(c.AlertCount), nil
	case "review-count":
		return strconv.Itoa(c.ReviewCount), nil
	case "task-count":
		return strconv.Itoa(c.TaskCount), nil
	case "message-count":
		return strconv.Itoa(c.MessageCount), nil
	case "pending-count":
		return strconv.Itoa(c.PendingCount), nil
	case "latest-title":
		return c.LatestTitle, nil
	case "has-unread":
		return strconv.FormatBool(c.UnreadCount > 0), nil
	case "highest-priority":
		return c.HighestPriority.String(), nil
	default:
		return "", fmt.Errorf("unknown variable: %s", name)
	}
}

var variablePattern = regexp.MustCompile(`\{\{([a-z0-9-]+)\}\}`)

// ParseTemplate returns the variables referenced by template, without duplicates.
func ParseTemplate(template string) []string {
	var vars []string
	seen := make(map[string]bool)
	for _, m := range variablePattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			vars = append(vars, m[1])
		}
	}
	return vars
}

// ValidateTemplate checks delimiters and that every variable is known.
func ValidateTemplate(template string) error {
	if open, closing := strings.Count(template, "{{"), strings.Count(template, "}}"); open != closing {
		return fmt.Errorf("mismatched variable delimiters: %d opens, %d closes", open, closing)
	}
	for _, name := range ParseTemplate(template) {
		if _, err := (BadgeContext{}).Resolve(name); err != nil {
			return err
		}
	}
	return nil
}

// RenderTemplate substitutes every {{variable}} in template.
func RenderTemplate(template string, ctx BadgeContext) (string, error) {
	var resolveErr error
	out := variablePattern.ReplaceAllStringFunc(template, func(match string) string {
		value, err := ctx.Resolve(match[2 : len(match)-2])
		if err != nil && resolveErr == nil {
			resolveErr = err
		}
		return value
	})
	if resolveErr != nil {
		return "", resolveErr
	}
	return out, nil
}

// Preset is a named badge template.
type Preset struct {
	Name        string
	Template    string
	Description string
}

var presets = []Preset{
	{Name: "compact", Template: "[{{unread-count}}] {{latest-title}}", Description: "Unread count and newest unread title"},
	{Name: "detailed", Template: "{{unread-count}} unread, {{read-count}} read | Latest: {{latest-title}}", Description: "Counts and newest unread title"},
	{Name: "count-only", Template: "{{unread-count}}", Description: "Only the unread count"},
	{Name: "priorities", Template: "{{high-count}} high / {{medium-count}} medium / {{low-count}} low", Description: "Unread counts per priority"},
	{Name: "reviews", Template: "{{pending-count}} pending review(s), {{alert-count}} alert(s)", Description: "Pending approvals and unread alerts"},
	{Name: "json", Template: `{"unread":{{unread-count}},"total":{{total-count}},"highest":"{{highest-priority}}"}`, Description: "JSON for scripts"},
}

// Presets returns the built-in badge presets in display order.
func Presets() []Preset {
	return append([]Preset(nil), presets...)
}

// BadgeFormatter writes a one-line summary of the feed.
type BadgeFormatter struct {
	Template string
}

// NewBadgeFormatter resolves a preset name or takes a literal template.
// An empty value uses the compact preset.
func NewBadgeFormatter(presetOrTemplate string) (*BadgeFormatter, error) {
	if presetOrTemplate == "" {
		presetOrTemplate = "compact"
	}
	for _, p := range presets {
		if p.Name == presetOrTemplate {
			return &BadgeFormatter{Template: p.Template}, nil
		}
	}
	if err := ValidateTemplate(presetOrTemplate); err != nil {
		return nil, err
	}
	return &BadgeFormatter{Template: presetOrTemplate}, nil
}

// FormatNotifications renders the template for notifs.
func (f *BadgeFormatter) FormatNotifications(notifs []domain.Notification, w io.Writer) error {
	line, err := RenderTemplate(f.Template, NewBadgeContext(notifs))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, line)
	return err
}
