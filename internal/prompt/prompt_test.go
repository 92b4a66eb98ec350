package prompt

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/loykin/hallfill/internal/console"
	"github.com/loykin/hallfill/internal/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedChannel returns queued results for each ReadUntil call.
type scriptedChannel struct {
	matches []console.Match
	errs    []error
	calls   int
}

func (c *scriptedChannel) ReadUntil(_ []*regexp.Regexp, _ time.Duration) (console.Match, error) {
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return console.Match{}, c.errs[i]
	}
	return c.matches[i], nil
}

func (c *scriptedChannel) SendLine(string) error { return nil }
func (c *scriptedChannel) Close() error          { return nil }

func TestWaitForMatched(t *testing.T) {
	ch := &scriptedChannel{matches: []console.Match{{Index: 1, Before: "前导输出", Text: "按任意键"}}}
	rec := &transcript.Memory{}
	w := NewWaiter(ch, rec)

	d := w.WaitFor(Default().PressAnyKey, time.Second)
	require.True(t, d.OK())
	assert.Equal(t, Matched, d.Result)
	assert.Equal(t, 1, d.Index)
	assert.Equal(t, `按任意键`, d.Pattern)
	assert.Equal(t, "前导输出", d.Preview)

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, transcript.KindDetect, events[0].Kind)
	assert.Contains(t, events[0].Message, "anykey")
}

func TestWaitForTimedOut(t *testing.T) {
	ch := &scriptedChannel{errs: []error{&console.TimeoutError{Preview: "残留输出"}}}
	rec := &transcript.Memory{}
	w := NewWaiter(ch, rec)

	d := w.WaitFor(Default().MainMenu, time.Second)
	assert.False(t, d.OK())
	assert.Equal(t, TimedOut, d.Result)
	assert.Equal(t, "残留输出", d.Preview)
	assert.NoError(t, d.Err)

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, transcript.KindTimeout, events[0].Kind)
	assert.Equal(t, "残留输出", events[0].Detail)
}

func TestWaitForChannelFailed(t *testing.T) {
	cause := &console.ReadError{Err: assert.AnError}
	ch := &scriptedChannel{errs: []error{cause}}
	rec := &transcript.Memory{}
	w := NewWaiter(ch, rec)

	d := w.WaitFor(Default().SaveConfirm, time.Second)
	assert.Equal(t, ChannelFailed, d.Result)
	assert.ErrorIs(t, d.Err, cause.Err)

	events := rec.Events()
	require.Len(t, events, 1)
	assert.Equal(t, transcript.KindError, events[0].Kind)
}

func TestWaitForTrimsPreview(t *testing.T) {
	long := strings.Repeat("很", 120) // 360 bytes
	ch := &scriptedChannel{matches: []console.Match{{Index: 0, Before: long, Text: "主菜单"}}}
	w := NewWaiter(ch, nil)

	d := w.WaitFor(Default().MainMenu, time.Second)
	require.True(t, d.OK())
	assert.LessOrEqual(t, len(d.Preview), 200)
	assert.True(t, strings.HasSuffix(long, d.Preview))
}

func TestDefaultVocabulary(t *testing.T) {
	v := Default()

	sets := []Set{
		v.InitBanner, v.PressAnyKey, v.MainMenu, v.FieldEntry,
		v.PhoneOffer, v.PhoneChoice, v.PhoneResult, v.SaveConfirm, v.ExitConfirm,
	}
	for _, s := range sets {
		assert.False(t, s.Empty(), "set %s", s.Name())
	}

	wantOrder := []string{"name", "gender", "age", "id_card", "job", "address"}
	for i, s := range v.Fields {
		assert.Equal(t, wantOrder[i], s.Name())
	}

	// Spot-check recognition against realistic program output.
	samples := map[string]Set{
		"======= 移动营业厅管理系统 =======": v.MainMenu,
		"请输入操作编号: ":                v.MainMenu,
		"请输入用户姓名：":                 v.Fields[0],
		"请输入性别(男/女)：":              v.Fields[1],
		"请输入年龄：":                   v.Fields[2],
		"请输入身份证号：":                 v.Fields[3],
		"请输入职业：":                   v.Fields[4],
		"请输入家庭地址：":                 v.Fields[5],
		"是否立即注册手机号? 1.是 2.否":       v.PhoneOffer,
		"1.手动输入 2.随机选号":            v.PhoneChoice,
		"✓ 数据已保存成功！":               v.SaveConfirm,
		"系统已退出":                    v.ExitConfirm,
		"按任意键继续...":                v.PressAnyKey,
	}
	for text, set := range samples {
		matched := false
		for _, p := range set.Patterns() {
			if p.MatchString(text) {
				matched = true
				break
			}
		}
		assert.True(t, matched, "%q should match set %s", text, set.Name())
	}
}
