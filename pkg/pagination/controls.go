package pagination

import "strconv"

// ControlKind distinguishes the navigation buttons rendered under the grid.
type ControlKind string

const (
	ControlPrevious ControlKind = "previous"
	ControlPage     ControlKind = "page"
	ControlNext     ControlKind = "next"
)

// Control is one pagination button.
type Control struct {
	Kind     ControlKind `json:"kind"`
	Label    string      `json:"label"`
	Page     int         `json:"page"`
	Active   bool        `json:"active"`
	Disabled bool        `json:"disabled"`
}

// Controls returns Previous, one button per page and Next. No controls are
// produced when everything fits on a single page.
func (p *Pager) Controls() []Control {
	total := p.TotalPages()
	if total <= 1 {
		return nil
	}

	controls := make([]Control, 0, total+2)
	controls = append(controls, Control{
		Kind:     ControlPrevious,
		Label:    "Previous",
		Page:     p.current - 1,
		Disabled: !p.HasPrevious(),
	})
	for i := 1; i <= total; i++ {
		controls = append(controls, Control{
			Kind:   ControlPage,
			Label:  strconv.Itoa(i),
			Page:   i,
			Active: i == p.current,
		})
	}
	controls = append(controls, Control{
		Kind:     ControlNext,
		Label:    "Next",
		Page:     p.current + 1,
		Disabled: !p.HasNext(),
	})
	return controls
}
