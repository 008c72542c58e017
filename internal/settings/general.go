package settings

// General holds the typed [general] settings: transport endpoints and
// credentials handed through to the notifier layer.
type General struct {
	SendmailCommand []string
	SMTPHost        string
	SMTPUser        string
	SMTPPass        string

	NNTPHost string
	NNTPUser string
	NNTPPass string

	DebugAllMailsTo []string
	CIARPCServer    string

	TempDir       string
	ConfigCharset string
	DiffCommand   []string
}

// NewGeneral returns an empty General.
func NewGeneral() *General { return &General{} }

// Apply stores a coerced value under its canonical option name.
func (g *General) Apply(key string, v Value) {
	if field, ok := GeneralSchema[key]; ok && field.assignGeneral != nil {
		field.assignGeneral(g, v)
	}
}

// GeneralSchema maps every canonical [general] option to its field
// description.
var GeneralSchema = map[string]Field{
	"sendmail_command": {
		Kind:          KindList,
		assignGeneral: func(g *General, v Value) { g.SendmailCommand = v.List },
	},
	"smtp_host": {
		Kind:          KindString,
		assignGeneral: func(g *General, v Value) { g.SMTPHost = v.Str },
	},
	"smtp_user": {
		Kind:          KindString,
		assignGeneral: func(g *General, v Value) { g.SMTPUser = v.Str },
	},
	"smtp_pass": {
		Kind:          KindString,
		assignGeneral: func(g *General, v Value) { g.SMTPPass = v.Str },
	},
	"nntp_host": {
		Kind:          KindString,
		assignGeneral: func(g *General, v Value) { g.NNTPHost = v.Str },
	},
	"nntp_user": {
		Kind:          KindString,
		assignGeneral: func(g *General, v Value) { g.NNTPUser = v.Str },
	},
	"nntp_pass": {
		Kind:          KindString,
		assignGeneral: func(g *General, v Value) { g.NNTPPass = v.Str },
	},
	"debug_all_mails_to": {
		Kind:          KindList,
		assignGeneral: func(g *General, v Value) { g.DebugAllMailsTo = v.List },
	},
	"cia_rpc_server": {
		Kind:          KindString,
		assignGeneral: func(g *General, v Value) { g.CIARPCServer = v.Str },
	},
	"tempdir": {
		Kind:          KindString,
		assignGeneral: func(g *General, v Value) { g.TempDir = v.Str },
	},
	"config_charset": {
		Kind:          KindString,
		assignGeneral: func(g *General, v Value) { g.ConfigCharset = v.Str },
	},
	"diff_command": {
		Kind:          KindList,
		assignGeneral: func(g *General, v Value) { g.DiffCommand = v.List },
	},
}

var generalAliases = map[string]string{
	"mail_command":  "sendmail_command",
	"smtp_hostname": "smtp_host",
	"diff":          "diff_command",
}

// LookupGeneralOption resolves key (or an alias of it) to its canonical
// name and schema entry.
func LookupGeneralOption(key string) (string, Field, bool) {
	if canonical, ok := generalAliases[key]; ok {
		key = canonical
	}
	field, ok := GeneralSchema[key]
	return key, field, ok
}
