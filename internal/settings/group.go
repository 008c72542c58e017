package settings

// Control option names. These steer group selection and are handled by the
// resolver rather than merged into the effective settings.
const (
	OptForRepos     = "for_repos"
	OptForPaths     = "for_paths"
	OptExcludePaths = "exclude_paths"
	OptFallback     = "fallback"
)

// Values of show_nonmatching_paths.
const (
	NonmatchingYes    = "yes"
	NonmatchingNo     = "no"
	NonmatchingIgnore = "ignore"
)

// Group holds the fully typed settings of one notification group after
// defaults merge, template expansion, map redirection and coercion.
type Group struct {
	Name string

	ShowNonmatchingPaths string

	CommitSubjectTemplate     string
	PropchangeSubjectTemplate string
	LockSubjectTemplate       string
	UnlockSubjectTemplate     string

	CommitSubjectPrefix     string
	PropchangeSubjectPrefix string
	LockSubjectPrefix       string
	UnlockSubjectPrefix     string

	MaxSubjectLength int

	FromAddr    []string
	ToAddr      []string
	ReplyToAddr string
	ToNewsgroup []string

	GenerateDiffs ChangeSet
	DiffCommand   []string

	LongMailAction *MailAction
	LongNewsAction *MailAction

	MailType             string
	MailTransferEncoding string
	NewsTransferEncoding string

	CustomHeader   string
	BrowserBaseURL string

	CIAProjectName      string
	CIAProjectModule    string
	CIAProjectBranch    string
	CIAProjectSubmodule string
	CIAProjectPath      string
}

// NewGroup returns a Group with the built-in defaults applied.
func NewGroup(name string) *Group {
	return &Group{
		Name:                 name,
		ShowNonmatchingPaths: NonmatchingNo,
		GenerateDiffs:        ChangeSet{},
	}
}

// Apply stores a coerced value under its canonical option name. The option
// must exist in the group schema.
func (g *Group) Apply(key string, v Value) {
	if field, ok := GroupSchema[key]; ok && field.assignGroup != nil {
		field.assignGroup(g, v)
	}
}

// Field describes one schema entry: the kind an option coerces to and how
// the resolver treats its raw value.
type Field struct {
	Kind    ValueKind
	Allowed []string
	// Subst: the raw value is template-expanded before coercion.
	Subst bool
	// Mappable: the value may be redirected through a [maps] table.
	Mappable bool
	// Control: consumed by the resolver during group selection.
	Control bool

	assignGroup   func(*Group, Value)
	assignGeneral func(*General, Value)
}

// GroupSchema maps every canonical group option to its field description.
var GroupSchema = map[string]Field{
	OptForRepos:     {Kind: KindRegex, Control: true},
	OptForPaths:     {Kind: KindRegex, Control: true},
	OptExcludePaths: {Kind: KindRegex, Control: true},
	OptFallback:     {Kind: KindBool, Control: true},

	"show_nonmatching_paths": {
		Kind: KindChoice, Mappable: true,
		Allowed:     []string{NonmatchingYes, NonmatchingNo, NonmatchingIgnore},
		assignGroup: func(g *Group, v Value) { g.ShowNonmatchingPaths = v.Str },
	},

	"commit_subject_template": {
		Kind: KindString, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.CommitSubjectTemplate = v.Str },
	},
	"propchange_subject_template": {
		Kind: KindString, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.PropchangeSubjectTemplate = v.Str },
	},
	"lock_subject_template": {
		Kind: KindString, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.LockSubjectTemplate = v.Str },
	},
	"unlock_subject_template": {
		Kind: KindString, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.UnlockSubjectTemplate = v.Str },
	},

	"commit_subject_prefix": {
		Kind: KindString, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.CommitSubjectPrefix = v.Str },
	},
	"propchange_subject_prefix": {
		Kind: KindString, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.PropchangeSubjectPrefix = v.Str },
	},
	"lock_subject_prefix": {
		Kind: KindString, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.LockSubjectPrefix = v.Str },
	},
	"unlock_subject_prefix": {
		Kind: KindString, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.UnlockSubjectPrefix = v.Str },
	},

	"max_subject_length": {
		Kind:        KindInt,
		assignGroup: func(g *Group, v Value) { g.MaxSubjectLength = v.Int },
	},

	"from_addr": {
		Kind: KindList, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.FromAddr = v.List },
	},
	"to_addr": {
		Kind: KindList, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.ToAddr = v.List },
	},
	"reply_to_addr": {
		Kind: KindString, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.ReplyToAddr = v.Str },
	},
	"to_newsgroup": {
		Kind: KindList, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.ToNewsgroup = v.List },
	},

	"generate_diffs": {
		Kind:        KindChangeSet,
		assignGroup: func(g *Group, v Value) { g.GenerateDiffs = v.Changes },
	},
	"diff_command": {
		Kind: KindList, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.DiffCommand = v.List },
	},

	"long_mail_action": {
		Kind: KindMailAction, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.LongMailAction = v.Action },
	},
	"long_news_action": {
		Kind: KindMailAction, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.LongNewsAction = v.Action },
	},

	"mail_type": {
		Kind: KindString, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.MailType = v.Str },
	},
	"mail_transfer_encoding": {
		Kind:        KindString,
		assignGroup: func(g *Group, v Value) { g.MailTransferEncoding = v.Str },
	},
	"news_transfer_encoding": {
		Kind:        KindString,
		assignGroup: func(g *Group, v Value) { g.NewsTransferEncoding = v.Str },
	},

	"custom_header": {
		Kind: KindString, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.CustomHeader = v.Str },
	},
	"browser_base_url": {
		Kind: KindString, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.BrowserBaseURL = v.Str },
	},

	"cia_project_name": {
		Kind: KindString, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.CIAProjectName = v.Str },
	},
	"cia_project_module": {
		Kind: KindString, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.CIAProjectModule = v.Str },
	},
	"cia_project_branch": {
		Kind: KindString, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.CIAProjectBranch = v.Str },
	},
	"cia_project_submodule": {
		Kind: KindString, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.CIAProjectSubmodule = v.Str },
	},
	"cia_project_path": {
		Kind: KindString, Subst: true, Mappable: true,
		assignGroup: func(g *Group, v Value) { g.CIAProjectPath = v.Str },
	},
}

// groupAliases maps accepted alternate spellings to canonical option names.
var groupAliases = map[string]string{
	"ignore_if_other_matches": OptFallback,
	"suppress_if_match":       OptFallback,
	"reply_to":                "reply_to_addr",
	"truncate_subject":        "max_subject_length",
	"subject_length":          "max_subject_length",
	"nonmatching_paths":       "show_nonmatching_paths",
	"nongroup_paths":          "show_nonmatching_paths",
	"show_nongroup_paths":     "show_nonmatching_paths",
	"diff":                    "diff_command",
}

// LookupGroupOption resolves key (or an alias of it) to its canonical name
// and schema entry.
func LookupGroupOption(key string) (string, Field, bool) {
	if canonical, ok := groupAliases[key]; ok {
		key = canonical
	}
	field, ok := GroupSchema[key]
	return key, field, ok
}
