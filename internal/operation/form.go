package operation

import (
	"dbops-console/internal/directory"
	"dbops-console/internal/i18n"
)

// Widget is how a field is presented.
type Widget string

const (
	WidgetSelect   Widget = "select"
	WidgetText     Widget = "text"
	WidgetPassword Widget = "password"
	WidgetTextArea Widget = "textarea"
	WidgetDropZone Widget = "dropzone"
)

// Option is one choice of a select field.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field is one input of an operation form.
type Field struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Widget      Widget   `json:"widget"`
	Placeholder string   `json:"placeholder,omitempty"`
	Hint        string   `json:"hint,omitempty"`
	Options     []Option `json:"options,omitempty"`
	// Servers marks a select filled from the server directory.
	Servers bool `json:"servers,omitempty"`
}

// Notice is the static text shown under a form.
type Notice struct {
	Title string   `json:"title,omitempty"`
	Text  string   `json:"text,omitempty"`
	Items []string `json:"items,omitempty"`
}

// Form is the full layout of one operation dialog.
type Form struct {
	Kind       Kind    `json:"kind"`
	Title      string  `json:"title"`
	ActionText string  `json:"actionText"`
	Fields     []Field `json:"fields"`
	Notice     Notice  `json:"notice"`
}

// FormState holds the values typed into an open dialog, keyed by field name.
type FormState map[string]string

// Clone returns an independent copy.
func (s FormState) Clone() FormState {
	out := make(FormState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Field names.
const (
	FieldServer         = "server"
	FieldDatabase       = "database"
	FieldLocation       = "location"
	FieldProduct        = "product"
	FieldUsername       = "username"
	FieldPassword       = "password"
	FieldEnvironment    = "environment"
	FieldReason         = "reason"
	FieldBackupFile     = "backup-file"
	FieldTargetServer   = "target-server"
	FieldTargetDatabase = "target-database"
)

// StorageLocations are the backup destinations.
func StorageLocations() []Option {
	return []Option{
		{Value: "primary", Label: "Primary Storage (East US)"},
		{Value: "secondary", Label: "Secondary Storage (West US)"},
		{Value: "backup", Label: "Backup Storage (Central US)"},
	}
}

// ProductTypes are the templates a new environment can be built from.
func ProductTypes() []Option {
	return []Option{
		{Value: "dts", Label: "DTS (Data Transfer Service)"},
		{Value: "piqs", Label: "PIQS (Product Intelligence Query Service)"},
		{Value: "emts", Label: "EMTS (Enterprise Management Tracking Service)"},
	}
}

// Environments are the environments offered for removal.
func Environments() []Option {
	return []Option{
		{Value: "dev-001", Label: "Development Environment - sql-dev-001"},
		{Value: "test-002", Label: "Test Environment - sql-test-002"},
		{Value: "staging-001", Label: "Staging Environment - sql-staging-001"},
	}
}

// Render builds the form for kind. servers fill the server selects; while
// loadingServers is set their placeholder says so. ok is false for an
// unknown kind, in which case nothing is rendered.
func Render(kind Kind, servers []directory.Entry, loadingServers bool) (form Form, ok bool) {
	var fields []Field
	var notice Notice

	switch kind {
	case Backup:
		fields = []Field{
			serverField(FieldServer, servers, loadingServers),
			textField(FieldDatabase, "database"),
			selectField(FieldLocation, "location", StorageLocations()),
		}
		notice = Notice{Text: i18n.T("operation.backup.notice")}
	case CreateEnvironment:
		fields = []Field{
			selectField(FieldProduct, "product", ProductTypes()),
			serverField(FieldServer, servers, loadingServers),
			textField(FieldDatabase, "new_database"),
			textField(FieldUsername, "username"),
			{
				Name:        FieldPassword,
				Label:       i18n.T("field.password.label"),
				Widget:      WidgetPassword,
				Placeholder: i18n.T("field.password.placeholder"),
			},
		}
		notice = Notice{Text: i18n.T("operation.create.notice")}
	case RemoveEnvironment:
		fields = []Field{
			selectField(FieldEnvironment, "environment", Environments()),
			{
				Name:        FieldReason,
				Label:       i18n.T("field.reason.label"),
				Widget:      WidgetTextArea,
				Placeholder: i18n.T("field.reason.placeholder"),
			},
		}
		notice = Notice{
			Title: i18n.T("operation.remove.safety_title"),
			Items: []string{
				i18n.T("operation.remove.safety_1"),
				i18n.T("operation.remove.safety_2"),
				i18n.T("operation.remove.safety_3"),
				i18n.T("operation.remove.safety_4"),
			},
		}
	case Restore:
		fields = []Field{
			{
				Name:        FieldBackupFile,
				Label:       i18n.T("field.backup_file.label"),
				Widget:      WidgetDropZone,
				Placeholder: i18n.T("field.backup_file.placeholder"),
				Hint:        i18n.T("field.backup_file.hint"),
			},
			serverField(FieldTargetServer, servers, loadingServers),
			textField(FieldTargetDatabase, "target_database"),
		}
		notice = Notice{Text: i18n.T("operation.restore.notice")}
	default:
		return Form{}, false
	}

	return Form{
		Kind:       kind,
		Title:      kind.Title(),
		ActionText: kind.ActionText(),
		Fields:     fields,
		Notice:     notice,
	}, true
}

// Has reports whether the form contains a field called name.
func (f Form) Has(name string) bool {
	for _, fld := range f.Fields {
		if fld.Name == name {
			return true
		}
	}
	return false
}

func serverField(name string, servers []directory.Entry, loading bool) Field {
	placeholder := i18n.T("field.server.placeholder")
	if loading {
		placeholder = i18n.T("field.server.loading")
	}
	opts := make([]Option, 0, len(servers))
	for _, s := range servers {
		opts = append(opts, Option{Value: s.ID, Label: s.DisplayName})
	}
	return Field{
		Name:        name,
		Label:       i18n.T("field.server.label"),
		Widget:      WidgetSelect,
		Placeholder: placeholder,
		Options:     opts,
		Servers:     true,
	}
}

func textField(name, msg string) Field {
	return Field{
		Name:        name,
		Label:       i18n.T("field." + msg + ".label"),
		Widget:      WidgetText,
		Placeholder: i18n.T("field." + msg + ".placeholder"),
	}
}

func selectField(name, msg string, opts []Option) Field {
	return Field{
		Name:        name,
		Label:       i18n.T("field." + msg + ".label"),
		Widget:      WidgetSelect,
		Placeholder: i18n.T("field." + msg + ".placeholder"),
		Options:     opts,
	}
}
