// Package prompt recognizes the target program's textual prompts. A Set is
// an ordered list of candidate regexes for one semantic prompt category;
// the Waiter turns a bounded read against the console channel into an
// explicit three-valued Detection so every caller's "proceed regardless"
// policy is a visible branch rather than a swallowed error.
package prompt

import (
	"fmt"
	"regexp"
)

// Set is a named, ordered collection of patterns for one prompt category.
// Static configuration, read-only during a run.
type Set struct {
	name    string
	exprs   []string
	regexps []*regexp.Regexp
}

// NewSet compiles the given expressions. Patterns are static program
// configuration, so an invalid expression panics.
func NewSet(name string, exprs ...string) Set {
	rs := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		rs[i] = regexp.MustCompile(e)
	}
	return Set{name: name, exprs: exprs, regexps: rs}
}

func (s Set) Name() string { return s.name }

// Exprs returns the raw pattern strings in order.
func (s Set) Exprs() []string { return append([]string(nil), s.exprs...) }

// Patterns returns the compiled patterns in order.
func (s Set) Patterns() []*regexp.Regexp { return s.regexps }

// Empty reports whether the set has no patterns.
func (s Set) Empty() bool { return len(s.regexps) == 0 }

// String implements fmt.Stringer for transcript lines.
func (s Set) String() string {
	return fmt.Sprintf("%s%v", s.name, s.exprs)
}

// FieldCount is the number of input fields in the add-user flow.
const FieldCount = 6

// Vocabulary is the full recognized prompt protocol of the target
// program. Fields holds the six per-field prompt sets in the fixed send
// order: name, gender, age, id number, job, address.
type Vocabulary struct {
	InitBanner  Set
	PressAnyKey Set
	MainMenu    Set
	FieldEntry  Set // first prompt after selecting "add user"
	Fields      [FieldCount]Set
	PhoneOffer  Set
	PhoneChoice Set
	PhoneResult Set
	SaveConfirm Set
	ExitConfirm Set
}

// Default returns the built-in vocabulary for the business-hall system.
func Default() Vocabulary {
	return Vocabulary{
		InitBanner:  NewSet("init", `系统初始化完成`, `欢迎使用移动营业厅管理系统`),
		PressAnyKey: NewSet("anykey", `Press any key`, `按任意键`),
		MainMenu: NewSet("main-menu",
			`=======\s*移动营业厅管理系统\s*=======`,
			`请输入操作编号`,
			`主菜单`,
			`1\D*新增用户`,
			`1\.`),
		FieldEntry: NewSet("field-entry", `请输入.*姓名`, `新增用户`),
		Fields: [FieldCount]Set{
			NewSet("name", `请输入.*姓名`, `姓名.*`, `姓名\(.*\)`),
			NewSet("gender", `请输入.*性别`, `性别.*`),
			NewSet("age", `请输入.*年龄`, `年龄.*`),
			NewSet("id_card", `请输入.*身份证`, `身份证.*`),
			NewSet("job", `请输入.*职业`, `职业.*`),
			NewSet("address", `请输入.*地址`, `地址.*`),
		},
		PhoneOffer:  NewSet("phone-offer", `是否立即注册手机号`),
		PhoneChoice: NewSet("phone-choice", `手动输入`, `随机选号`),
		PhoneResult: NewSet("phone-result", `注册成功`, `随机分配`),
		SaveConfirm: NewSet("save", `保存成功`, `数据已保存`),
		ExitConfirm: NewSet("exit", `系统已退出`, `感谢使用`),
	}
}
