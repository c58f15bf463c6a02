package prompt

import (
	"strings"
	"unicode"
)

// RoleVariant selects the register the email is written in.
type RoleVariant string

const (
	RoleEngineering RoleVariant = "engineering"
	RoleDesign      RoleVariant = "design"
	RoleLegal       RoleVariant = "legal"
	RoleExecutive   RoleVariant = "executive"
	RoleDefault     RoleVariant = "default"
)

type roleRule struct {
	variant  RoleVariant
	prefixes []string
	exact    []string
	// excludedBy tokens anywhere in the role disable this rule.
	excludedBy []string
	guidance   []string
}

// The first token that matches a rule decides the variant, so the leading
// word of a role ("Design Engineering") wins over later ones.
var roleRules = []roleRule{
	{
		variant:    RoleEngineering,
		prefixes:   []string{"engineer", "develop", "backend", "frontend", "tech", "개발", "엔지니어"},
		exact:      []string{"dev", "devs", "it", "qa", "sre", "devops", "r&d"},
		excludedBy: []string{"business", "marketing", "sales", "비즈니스", "마케팅", "영업"},
		guidance: []string{
			"Think in terms of feasibility, scope, dependencies, risks and timelines.",
			"Surface assumptions explicitly.",
			"Ask for evaluation and judgment, not blind execution.",
		},
	},
	{
		variant:  RoleDesign,
		prefixes: []string{"design", "creative", "디자인", "디자이너"},
		exact:    []string{"ux", "ui", "ux/ui", "ui/ux", "art"},
		guidance: []string{
			"Think in terms of scope clarity, assets, review cycles and feedback timing.",
			"Make it clear what needs to be reviewed or produced.",
		},
	},
	{
		variant:  RoleLegal,
		prefixes: []string{"legal", "lawyer", "attorney", "compliance", "counsel", "법무", "법률", "준법"},
		exact:    []string{"law"},
		guidance: []string{
			"Think in terms of risk, compliance, approvals and constraints.",
			"Separate what is assumed from what needs validation.",
		},
	},
	{
		variant:  RoleExecutive,
		prefixes: []string{"executive", "exec", "leader", "management", "director", "경영", "임원", "대표"},
		exact:    []string{"ceo", "cto", "cfo", "coo", "vp", "c-level"},
		guidance: []string{
			"Be concise.",
			"Focus on decisions needed, impact, trade-offs and urgency.",
			"Avoid operational detail unless it affects the decision.",
		},
	},
}

var defaultGuidance = []string{
	"The recipient's discipline is not one of the recognised ones, so optimise for clarity.",
	"State the assumptions being made.",
	"Make the email decision-ready: the recipient should know exactly what to decide or answer.",
}

// ClassifyRole maps a free-form recipient role onto a RoleVariant.
func ClassifyRole(role string) RoleVariant {
	tokens := strings.FieldsFunc(strings.ToLower(role), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '/' && r != '-' && r != '&'
	})
	for _, tok := range tokens {
		for _, rule := range roleRules {
			if rule.matches(tok) && !rule.excluded(tokens) {
				return rule.variant
			}
		}
	}
	return RoleDefault
}

func (r roleRule) matches(tok string) bool {
	for _, e := range r.exact {
		if tok == e {
			return true
		}
	}
	for _, p := range r.prefixes {
		if strings.HasPrefix(tok, p) {
			return true
		}
	}
	return false
}

func (r roleRule) excluded(tokens []string) bool {
	for _, tok := range tokens {
		for _, x := range r.excludedBy {
			if strings.HasPrefix(tok, x) {
				return true
			}
		}
	}
	return false
}

// Guidance returns the instruction lines for v.
func (v RoleVariant) Guidance() []string {
	for _, rule := range roleRules {
		if rule.variant == v {
			return rule.guidance
		}
	}
	return defaultGuidance
}
