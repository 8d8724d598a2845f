package schedule

import (
	"fmt"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ── ParseWeek 测试 ──

func TestParseWeek_BothLabelForms(t *testing.T) {
	// "-5".."8" 与 "Week N" 两种形式必须解析为同一个带符号整数
	for n := -5; n <= 8; n++ {
		bare := fmt.Sprintf("%d", n)
		prefixed := fmt.Sprintf("Week %d", n)
		if got := ParseWeek(bare); got != Week(n) {
			t.Errorf("ParseWeek(%q) 期望 %d，实际 %d", bare, n, got)
		}
		if got := ParseWeek(prefixed); got != Week(n) {
			t.Errorf("ParseWeek(%q) 期望 %d，实际 %d", prefixed, n, got)
		}
	}
}

func TestParseWeek_Unparsable(t *testing.T) {
	for _, s := range []string{"", "abc", "Week", "  "} {
		if got := ParseWeek(s); got != 0 {
			t.Errorf("ParseWeek(%q) 期望 0，实际 %d", s, got)
		}
	}
}

func TestWeek_Label(t *testing.T) {
	if got := Week(-5).Label(); got != "Week -5" {
		t.Errorf("期望 Week -5，实际 %s", got)
	}
	if got := Week(8).Label(); got != "Week 8" {
		t.Errorf("期望 Week 8，实际 %s", got)
	}
}

func TestWeek_Code(t *testing.T) {
	cases := map[Week]string{-5: "WM5", -1: "WM1", 0: "W0", 1: "W1", 8: "W8"}
	for w, want := range cases {
		if got := w.Code(); got != want {
			t.Errorf("Week(%d).Code() 期望 %s，实际 %s", w, want, got)
		}
	}
}

// ── CurrentWeek 测试 ──

func TestCurrentWeek_ClampLow(t *testing.T) {
	start := date(2024, 5, 20)
	// 早于开训 5 周以上的任意日期都必须恰好得到 -5
	for _, days := range []int{36, 42, 70, 365} {
		today := start.AddDate(0, 0, -days)
		if got := CurrentWeek(today, start); got != MinWeek {
			t.Errorf("开训前 %d 天期望 -5，实际 %d", days, got)
		}
	}
}

func TestCurrentWeek_ClampHigh(t *testing.T) {
	start := date(2024, 5, 20)
	// 晚于开训 7 周以上的任意日期都必须恰好得到 8
	for _, days := range []int{50, 56, 100, 365} {
		today := start.AddDate(0, 0, days)
		if got := CurrentWeek(today, start); got != MaxWeek {
			t.Errorf("开训后 %d 天期望 8，实际 %d", days, got)
		}
	}
}

func TestCurrentWeek_PositiveRange(t *testing.T) {
	start := date(2024, 5, 20)
	cases := []struct {
		days int
		want Week
	}{
		{0, 1}, {6, 1}, {7, 2}, {13, 2}, {14, 3}, {48, 7}, {49, 8},
	}
	for _, c := range cases {
		if got := CurrentWeek(start.AddDate(0, 0, c.days), start); got != c.want {
			t.Errorf("开训后 %d 天期望 %d，实际 %d", c.days, c.want, got)
		}
	}
}

func TestCurrentWeek_NeverZero(t *testing.T) {
	start := date(2024, 5, 20)
	// 覆盖 [-60, 70] 全区间：推算结果永不为 0
	for days := -60; days <= 70; days++ {
		got := CurrentWeek(start.AddDate(0, 0, days), start)
		if got == 0 {
			t.Fatalf("开训 %+d 天不应得到第 0 周", days)
		}
		if !got.Valid() {
			t.Fatalf("开训 %+d 天得到范围外周次 %d", days, got)
		}
	}
}

func TestCurrentWeek_ZeroStart(t *testing.T) {
	if got := CurrentWeek(date(2024, 5, 20), time.Time{}); got != 0 {
		t.Errorf("开训日期缺失期望哨兵值 0，实际 %d", got)
	}
}

func TestCurrentWeek_MixedTimezones(t *testing.T) {
	// today 取服务器本地时区、startDate 解析自 UTC 是常态调用形式；
	// 周边界日（开训后整 7 天）在任何时区下都必须翻到下一周
	start := date(2024, 5, 20)
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("UTC+2", 2*3600),
		time.FixedZone("UTC+12", 12*3600),
		time.FixedZone("UTC-7", -7*3600),
	}
	for _, loc := range zones {
		today := time.Date(2024, 5, 27, 10, 0, 0, 0, loc)
		if got := CurrentWeek(today, start); got != 2 {
			t.Errorf("时区 %s 开训后第 7 个自然日期望第 2 周，实际 %d", loc, got)
		}
		dayBefore := time.Date(2024, 5, 26, 23, 0, 0, 0, loc)
		if got := CurrentWeek(dayBefore, start); got != 1 {
			t.Errorf("时区 %s 开训后第 6 个自然日期望第 1 周，实际 %d", loc, got)
		}
	}
}

// ── DueDate 测试 ──

func TestDueDate_OffsetInvariant(t *testing.T) {
	start := date(2024, 5, 20)
	// 到期日恒为周起始日前移 7 天，且同输入必得同输出
	for n := -5; n <= 8; n++ {
		w := Week(n)
		var weekStart time.Time
		if n <= 0 {
			weekStart = start.AddDate(0, 0, n*7)
		} else {
			weekStart = start.AddDate(0, 0, (n-1)*7)
		}
		want := weekStart.AddDate(0, 0, -7)
		got := DueDate(w, start)
		if !got.Equal(want) {
			t.Errorf("Week %d 期望 %s，实际 %s", n, want.Format("2006-01-02"), got.Format("2006-01-02"))
		}
		if again := DueDate(w, start); !again.Equal(got) {
			t.Errorf("Week %d 两次计算结果不一致", n)
		}
	}
}

func TestDueDate_Week1(t *testing.T) {
	// 第 1 周任务的到期日 = 开训日前 7 天（字面偏移规则）
	start := date(2024, 5, 20)
	want := date(2024, 5, 13)
	if got := DueDate(1, start); !got.Equal(want) {
		t.Errorf("期望 2024-05-13，实际 %s", got.Format("2006-01-02"))
	}
}

func TestDueDate_ZeroStart(t *testing.T) {
	if got := DueDate(3, time.Time{}); !got.IsZero() {
		t.Errorf("开训日期缺失期望零值，实际 %s", got)
	}
}

// ── EditionCode 测试 ──

func TestEditionCode(t *testing.T) {
	if got := EditionCode(2024, 5, "A"); got != "2405-A" {
		t.Errorf("期望 2405-A，实际 %s", got)
	}
	if got := EditionCode(2025, 12, "B"); got != "2512-B" {
		t.Errorf("期望 2512-B，实际 %s", got)
	}
}

// ── Classify 测试 ──

func TestClassify(t *testing.T) {
	start := date(2024, 5, 20)
	cases := []struct {
		now  time.Time
		want Phase
	}{
		{date(2024, 5, 19), PhaseUpcoming},
		{date(2024, 5, 20), PhaseActive},
		{date(2024, 7, 15), PhaseActive}, // 第 8 周最后一天附近
		{start.AddDate(0, 0, 56), PhaseActive},
		{start.AddDate(0, 0, 57), PhaseFinished},
		{date(2025, 1, 1), PhaseFinished},
	}
	for _, c := range cases {
		if got := Classify(start, c.now); got != c.want {
			t.Errorf("now=%s 期望 %s，实际 %s", c.now.Format("2006-01-02"), c.want, got)
		}
	}
}

func TestClassify_MixedTimezones(t *testing.T) {
	start := date(2024, 5, 20)
	east := time.FixedZone("UTC+12", 12*3600)
	// 8 周窗口最后一天与次日的判定不受 now 所在时区影响
	if got := Classify(start, time.Date(2024, 7, 15, 8, 0, 0, 0, east)); got != PhaseActive {
		t.Errorf("窗口最后一天期望 active，实际 %s", got)
	}
	if got := Classify(start, time.Date(2024, 7, 16, 8, 0, 0, 0, east)); got != PhaseFinished {
		t.Errorf("窗口次日期望 finished，实际 %s", got)
	}
}
