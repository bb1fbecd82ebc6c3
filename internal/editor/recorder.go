package editor

// Recorder is a UI that keeps every message and the last choice list. Hosts
// that talk to the editor asynchronously send the recording back in one
// response; the host answers a choice list with a new paste request.
type Recorder struct {
	Statuses     []string
	Errors       []string
	ConsoleLines []string
	Placeholder  string
	Choices      []Choice

	// Pick, when set, is called with the choices and its result is passed to
	// onSelect, letting tests and local hosts answer synchronously.
	Pick func(choices []Choice) int
}

func (r *Recorder) Status(msg string)  { r.Statuses = append(r.Statuses, msg) }
func (r *Recorder) Error(msg string)   { r.Errors = append(r.Errors, msg) }
func (r *Recorder) Console(msg string) { r.ConsoleLines = append(r.ConsoleLines, msg) }

func (r *Recorder) ShowChoices(placeholder string, choices []Choice, onSelect func(idx int)) {
	r.Placeholder = placeholder
	r.Choices = choices
	if r.Pick != nil {
		onSelect(r.Pick(choices))
	}
}
