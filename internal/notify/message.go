package notify

import "strings"

// Message is an out-of-band mail addressed to one user.
type Message struct {
	To         string   `json:"to"`
	ToName     string   `json:"to_name"`
	Subject    string   `json:"subject"`
	Lines      []string `json:"lines"`
	ActionText string   `json:"action_text,omitempty"`
	ActionURL  string   `json:"action_url,omitempty"`
	Outro      string   `json:"outro,omitempty"`
}

// Text renders the message as a plain-text mail body.
func (m Message) Text() string {
	var b strings.Builder
	if m.ToName != "" {
		b.WriteString("Hello " + m.ToName + ",\n\n")
	}
	for _, line := range m.Lines {
		b.WriteString(line + "\n")
	}
	if m.ActionURL != "" {
		b.WriteString("\n" + m.ActionText + ": " + m.ActionURL + "\n")
	}
	if m.Outro != "" {
		b.WriteString("\n" + m.Outro + "\n")
	}
	return b.String()
}
