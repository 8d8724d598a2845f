package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ── 周次与日期计算（纯函数，无状态） ──
//
// 培训周次范围固定为 [-5, 8]：
//   - 负数周为开训前的筹备周（最早提前 5 周）
//   - 第 1 周从 start_date 当天开始，共 8 个培训周
//   - 第 0 周仅作为模板标签存在，CurrentWeek 永不返回 0

const (
	// MinWeek 最早筹备周
	MinWeek Week = -5
	// MaxWeek 最后培训周
	MaxWeek Week = 8
	// TrainingWeeks 培训总周数（决定版次 8 周生命周期窗口）
	TrainingWeeks = 8
)

// Week 培训周次标识（带符号整数）
// 持久层与 API 边界统一通过 ParseWeek / Label 与字符串形式互转
type Week int

var weekLabelRe = regexp.MustCompile(`-?\d+`)

// ParseWeek 从周次标签中提取带符号整数。
// 兼容 "5"、"-5"、"Week 5"、"Week -5" 等调用方混用的两种形式；
// 无法解析时返回 0（调用方按可选字段处理，不报错）。
func ParseWeek(label string) Week {
	m := weekLabelRe.FindString(strings.TrimSpace(label))
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return Week(n)
}

// Label 返回展示用标签，如 "Week -5"、"Week 8"
func (w Week) Label() string {
	return fmt.Sprintf("Week %d", int(w))
}

// Code 按约定生成任务编码前缀：W{n}，负数周为 WM{n}
func (w Week) Code() string {
	if w < 0 {
		return fmt.Sprintf("WM%d", -int(w))
	}
	return fmt.Sprintf("W%d", int(w))
}

// Valid 周次是否在合法范围 [-5, 8] 内
func (w Week) Valid() bool {
	return w >= MinWeek && w <= MaxWeek
}

// CurrentWeek 由当前日期与开训日期推算当前周次。
//
// 规则（与历史行为逐位对齐，勿做"合理化"修正）：
//   - today 早于 startDate：按经过天数 / 7 向上取整得到负数周，下限 -5
//   - 否则：经过整周数 + 1，上限 8
//
// 推算结果永不为 0：-1 的下一周直接是 1（第 0 周只在模板数据中出现）。
func CurrentWeek(today, startDate time.Time) Week {
	if startDate.IsZero() {
		return 0
	}
	today = truncateDay(today)
	startDate = truncateDay(startDate)
	days := int(today.Sub(startDate).Hours() / 24)

	if days < 0 {
		// 向上取整：-14 天 → -2 周，-8 天 → -1 周，-7 天 → -1 周
		w := Week(ceilDiv(days, 7))
		if w == 0 {
			w = -1
		}
		if w < MinWeek {
			return MinWeek
		}
		return w
	}

	w := Week(days/7) + 1
	if w > MaxWeek {
		return MaxWeek
	}
	return w
}

// DueDate 计算指定周次任务的到期日。
//
// 先求该周的周起始日：
//   - weekNum <= 0：startDate + weekNum*7 天
//   - weekNum  > 0：startDate + (weekNum-1)*7 天
//
// 到期日恒为周起始日再前移 7 天（"提前一周准备"策略——无论正负周
// 均整体前移一周，这是既有系统的既定行为，保持原样）。
// startDate 为零值时返回零值，不报错。
func DueDate(w Week, startDate time.Time) time.Time {
	if startDate.IsZero() {
		return time.Time{}
	}
	n := int(w)
	var weekStart time.Time
	if n <= 0 {
		weekStart = startDate.AddDate(0, 0, n*7)
	} else {
		weekStart = startDate.AddDate(0, 0, (n-1)*7)
	}
	return weekStart.AddDate(0, 0, -7)
}

// EditionCode 生成版次编码：两位年 + 两位月 + "-" + 变体字母
// 例：EditionCode(2024, 5, "A") → "2405-A"
func EditionCode(year, month int, variant string) string {
	return fmt.Sprintf("%02d%02d-%s", year%100, month, variant)
}

// ── 版次阶段 ──

// Phase 版次所处阶段
type Phase string

const (
	PhaseUpcoming Phase = "upcoming"
	PhaseActive   Phase = "active"
	PhaseFinished Phase = "finished"
)

// Classify 按开训日期与当前时刻判定版次阶段。
// 8 周窗口与周次范围 [1,8] 对应，为固定常量。
func Classify(startDate, now time.Time) Phase {
	if startDate.IsZero() {
		return PhaseUpcoming
	}
	start := truncateDay(startDate)
	now = truncateDay(now)
	if now.Before(start) {
		return PhaseUpcoming
	}
	if now.After(start.AddDate(0, 0, TrainingWeeks*7)) {
		return PhaseFinished
	}
	return PhaseActive
}

// ── 内部辅助 ──

// truncateDay 归一化到该时刻所在自然日的 UTC 零点。
// today（服务器本地时区）与解析自 UTC 的 startDate 混用时，
// 必须统一到同一时区再做差，否则周边界日会差出一天。
func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}
