// Package chat implements the assistant's intent router: a single free-text
// message in, a single reply out, with at most one task-store side effect.
package chat

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"smart-assistant-api/internal/analytics"
	"smart-assistant-api/internal/models"
	"smart-assistant-api/internal/tasks"

	"go.uber.org/zap"
)

// apologyReply is returned whenever a rule handler hits a storage error. The
// router never raises past its boundary; the conversation continues.
const apologyReply = "😔 Sorry, something went wrong on my side while handling that. Please try again in a moment."

// rule pairs a predicate with a handler. Rules are evaluated in slice order
// and the first match wins; reordering changes behavior and is pinned by
// tests.
type rule struct {
	name   string
	match  func(msg string) bool
	handle func(raw, lower string) (string, error)
}

// Router maps one chat message to one reply. Randomness and the clock are
// injected so tests can pin exact output.
type Router struct {
	tasks     *tasks.Service
	analytics *analytics.Service
	rng       *rand.Rand
	now       func() time.Time
	log       *zap.Logger
	userID    uint

	rules []rule
}

// NewRouter constructs the intent router for the demo user.
func NewRouter(taskSvc *tasks.Service, analyticsSvc *analytics.Service, rng *rand.Rand, log *zap.Logger) *Router {
	r := &Router{
		tasks:     taskSvc,
		analytics: analyticsSvc,
		rng:       rng,
		now:       time.Now,
		log:       log,
		userID:    models.DemoUserID,
	}
	r.rules = []rule{
		{name: "create_task", match: r.matchCreate, handle: r.handleCreate},
		{name: "complete_task", match: matchComplete, handle: r.handleComplete},
		{name: "overdue_tasks", match: matchOverdue, handle: r.handleOverdue},
		{name: "today_tasks", match: matchToday, handle: r.handleToday},
		{name: "show_tasks", match: matchShow, handle: r.handleShow},
		{name: "stress", match: matchStress, handle: r.handleStress},
		{name: "motivation", match: matchMotivation, handle: r.handleMotivation},
		{name: "weather", match: matchWeather, handle: r.handleWeather},
		{name: "analytics", match: matchAnalytics, handle: r.handleAnalytics},
		{name: "help", match: matchHelp, handle: r.handleHelp},
		{name: "greeting", match: matchGreeting, handle: r.handleGreeting},
	}
	return r
}

// Respond maps one non-empty message to exactly one reply string. Storage
// errors in any branch collapse to a generic apology.
func (r *Router) Respond(message string) string {
	raw := strings.TrimSpace(message)
	lower := strings.ToLower(raw)

	for _, rl := range r.rules {
		if !rl.match(lower) {
			continue
		}
		reply, err := rl.handle(raw, lower)
		if err != nil {
			r.log.Warn("chat rule failed", zap.String("rule", rl.name), zap.Error(err))
			return apologyReply
		}
		return reply
	}

	reply, err := r.fallback()
	if err != nil {
		r.log.Warn("chat fallback failed", zap.Error(err))
		return apologyReply
	}
	return reply
}

// --- rule 1: task creation ---

var creationTriggers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^.*?\b(?:create|add|make|new)\s+(?:a\s+)?(?:new\s+)?task\b[:\s]*(?:to\s+|for\s+|called\s+)?(.*)$`),
	regexp.MustCompile(`(?i)^.*?\bremind me to\s+(.*)$`),
	regexp.MustCompile(`(?i)^.*?\bi need to\s+(.*)$`),
	regexp.MustCompile(`(?i)^(?:task|todo|add):\s*(.*)$`),
}

func (r *Router) matchCreate(lower string) bool {
	for _, re := range creationTriggers {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

func (r *Router) handleCreate(raw, lower string) (string, error) {
	var phrase string
	for _, re := range creationTriggers {
		if m := re.FindStringSubmatch(raw); m != nil {
			phrase = strings.TrimSpace(m[1])
			break
		}
	}
	if phrase == "" {
		return "📝 Sure — what should the task be? Try something like \"remind me to buy milk tomorrow\".", nil
	}

	draft := ExtractTaskFields(phrase, r.now())
	title := draft.Title
	if title == "" {
		// Stripping ate the whole phrase; fall back to the raw fragment so
		// the user still gets an editable task.
		title = phrase
	}

	task, err := r.tasks.Create(r.userID, tasks.CreateInput{
		Title:       title,
		Description: draft.Description,
		Priority:    draft.Priority,
		DueDate:     draft.DueDate,
	})
	if err != nil {
		return "", err
	}

	due := "not set"
	if task.DueDate != nil {
		due = task.DueDate.Format("Mon, Jan 2 2006")
	}
	desc := task.Description
	if desc == "" {
		desc = "none"
	}
	return fmt.Sprintf("✅ Task created!\n📌 Title: %s\n📝 Description: %s\n⚡ Priority: %s\n📅 Due: %s",
		task.Title, desc, task.Priority, due), nil
}

// --- rule 2: task management ---

var completePattern = regexp.MustCompile(`(?i)^(?:complete|finish|done)\s+(.+)$`)

func matchComplete(lower string) bool {
	return completePattern.MatchString(lower)
}

func (r *Router) handleComplete(raw, lower string) (string, error) {
	name := strings.TrimSpace(completePattern.FindStringSubmatch(raw)[1])
	name = strings.TrimPrefix(strings.ToLower(name), "task ")

	task, err := r.tasks.FindMatchable(r.userID, name)
	if err == tasks.ErrNotFound {
		return fmt.Sprintf("🔍 I couldn't find an open task matching \"%s\". Try \"show tasks\" to see what's on your list.", name), nil
	}
	if err != nil {
		return "", err
	}

	if _, err := r.tasks.Complete(r.userID, task.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("🎉 Nice work! \"%s\" is marked as completed.", task.Title), nil
}

func matchOverdue(lower string) bool {
	return strings.Contains(lower, "overdue") || strings.Contains(lower, "late task")
}

func (r *Router) handleOverdue(raw, lower string) (string, error) {
	now := r.now()
	overdue, err := r.tasks.Overdue(r.userID, now)
	if err != nil {
		return "", err
	}
	if len(overdue) == 0 {
		return "✅ Nothing is overdue. You're all caught up!", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ You have %d overdue task%s:\n", len(overdue), plural(len(overdue)))
	for _, t := range overdue {
		days := int(now.Sub(*t.DueDate).Hours() / 24)
		fmt.Fprintf(&b, "• %s — %d day%s overdue\n", t.Title, days, plural(days))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func matchToday(lower string) bool {
	return strings.Contains(lower, "today") &&
		(strings.Contains(lower, "task") || strings.Contains(lower, "todo") || strings.Contains(lower, "due"))
}

func (r *Router) handleToday(raw, lower string) (string, error) {
	due, err := r.tasks.DueToday(r.userID, r.now())
	if err != nil {
		return "", err
	}
	if len(due) == 0 {
		return "🌤️ Nothing is due today. Good day to get ahead!", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📅 Due today (%d):\n", len(due))
	for _, t := range due {
		fmt.Fprintf(&b, "• %s [%s]\n", t.Title, t.Priority)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func matchShow(lower string) bool {
	return (strings.Contains(lower, "show") || strings.Contains(lower, "list") || strings.Contains(lower, "what are my")) &&
		(strings.Contains(lower, "task") || strings.Contains(lower, "todo"))
}

func (r *Router) handleShow(raw, lower string) (string, error) {
	pending, err := r.tasks.Pending(r.userID, 5)
	if err != nil {
		return "", err
	}
	if len(pending) == 0 {
		return "🎉 Your list is empty — no pending tasks. Enjoy the moment!", nil
	}

	var b strings.Builder
	b.WriteString("📋 Here's what's on your plate:\n")
	for _, t := range pending {
		line := fmt.Sprintf("• %s [%s]", t.Title, t.Priority)
		if t.DueDate != nil {
			line += " — due " + t.DueDate.Format("Jan 2")
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// --- rule 3: mood ---

var stressWords = []string{"stress", "overwhelm", "anxious", "too much", "exhausted", "burned out", "burnt out"}

func matchStress(lower string) bool {
	return containsAny(lower, stressWords)
}

func (r *Router) handleStress(raw, lower string) (string, error) {
	pending, err := r.tasks.PendingCount(r.userID)
	if err != nil {
		return "", err
	}
	if pending > 5 {
		return fmt.Sprintf("😮‍💨 I hear you — %d open tasks is a lot. Let's make it manageable:\n"+
			"1️⃣ Pick the single most urgent task and do only that one.\n"+
			"2️⃣ Ask me to \"show overdue\" so nothing surprises you.\n"+
			"3️⃣ Take a 5-minute break before you start.", pending), nil
	}
	return fmt.Sprintf("💙 Take a breath — you only have %d open task%s right now. That's completely manageable, and I'm here to help.",
		pending, plural(int(pending))), nil
}

var motivationWords = []string{"motivat", "inspir", "pumped", "energized"}

func matchMotivation(lower string) bool {
	return containsAny(lower, motivationWords)
}

func (r *Router) handleMotivation(raw, lower string) (string, error) {
	done, err := r.tasks.CompletedTodayCount(r.userID, r.now())
	if err != nil {
		return "", err
	}
	if done == 0 {
		return "🔥 Love the energy! Nothing checked off yet today — pick one small task and get the streak started.", nil
	}
	return fmt.Sprintf("🔥 That's the spirit! You've already completed %d task%s today. Keep the momentum going!",
		done, plural(int(done))), nil
}

// --- rule 4: topics ---

func matchWeather(lower string) bool {
	return containsAny(lower, []string{"weather", "temperature", "rain"})
}

var weatherReplies = []string{
	"🌤️ The weather looks great today! It's partly cloudy with a comfortable temperature of 22°C. Perfect for outdoor activities!",
	"☀️ I checked the weather for you - it's sunny and warm! Don't forget to wear sunscreen if you're going outside.",
	"🌧️ Looks like there might be some rain later today. You might want to bring an umbrella just in case!",
	"🌡️ The temperature is quite pleasant today at 22°C. Great weather for a walk or outdoor lunch!",
}

func (r *Router) handleWeather(raw, lower string) (string, error) {
	return weatherReplies[r.rng.Intn(len(weatherReplies))], nil
}

func matchAnalytics(lower string) bool {
	return containsAny(lower, []string{"analytics", "productivity", "progress", "how am i doing", "stats"})
}

func (r *Router) handleAnalytics(raw, lower string) (string, error) {
	overview, err := r.analytics.Overview(r.userID)
	if err != nil {
		return "", err
	}
	p := overview.Productivity
	return fmt.Sprintf("📊 Here's your productivity snapshot:\n"+
		"• Completion rate: %d%%\n"+
		"• Productivity score: %.0f/100\n"+
		"• Trend: %s\n"+
		"• Overdue tasks: %d",
		p.CompletionRate, p.Score, p.Trend, overview.Tasks.Overdue), nil
}

func matchHelp(lower string) bool {
	return strings.Contains(lower, "help") || strings.Contains(lower, "what can you do")
}

func (r *Router) handleHelp(raw, lower string) (string, error) {
	return "🤖 I'm your Smart Personal Assistant! Here's what I can help you with:\n\n" +
		"📋 Task Management - \"remind me to buy milk tomorrow\", \"show tasks\", \"complete <name>\", \"show overdue\"\n" +
		"🌤️ Weather Updates - ask me about the weather\n" +
		"📊 Analytics - ask about your productivity or progress\n" +
		"💬 Smart Chat - or just tell me what's on your mind\n\n" +
		"Just ask me anything or use the dashboard features!", nil
}

var greetingPattern = regexp.MustCompile(`(?i)\b(hello|hi|hey|good morning|good afternoon|good evening)\b`)

func matchGreeting(lower string) bool {
	return greetingPattern.MatchString(lower)
}

func (r *Router) handleGreeting(raw, lower string) (string, error) {
	now := r.now()
	stats, err := r.tasks.Stats(r.userID, now)
	if err != nil {
		return "", err
	}

	var part string
	switch h := now.Hour(); {
	case h < 12:
		part = "Good morning"
	case h < 18:
		part = "Good afternoon"
	default:
		part = "Good evening"
	}

	open := stats.Pending + stats.InProgress
	if stats.Overdue > 0 {
		return fmt.Sprintf("👋 %s! You have %d open task%s, %d of them overdue. Want me to list the overdue ones first?",
			part, open, plural(int(open)), stats.Overdue), nil
	}
	return fmt.Sprintf("👋 %s! You have %d open task%s and nothing overdue. How can I help?",
		part, open, plural(int(open))), nil
}

// --- rule 5: fallback ---

var fallbackTemplates = []string{
	"🤔 That's interesting! Right now you have %d pending and %d in-progress tasks — is there something specific I can help you with?",
	"💭 I understand. With %d pending tasks on your list, would you like me to help you prioritize?",
	"✨ Thanks for sharing! You've completed %d task%s today — let me know if you want to add something new to your list.",
	"🎯 I'm here to help! You have %d pending tasks. Try \"show tasks\", or just tell me what to remind you about.",
	"🚀 Ready when you are! %d pending, %d in progress — what would you like to work on?",
}

func (r *Router) fallback() (string, error) {
	stats, err := r.tasks.Stats(r.userID, r.now())
	if err != nil {
		return "", err
	}
	doneToday, err := r.tasks.CompletedTodayCount(r.userID, r.now())
	if err != nil {
		return "", err
	}

	switch r.rng.Intn(len(fallbackTemplates)) {
	case 0:
		return fmt.Sprintf(fallbackTemplates[0], stats.Pending, stats.InProgress), nil
	case 1:
		return fmt.Sprintf(fallbackTemplates[1], stats.Pending), nil
	case 2:
		return fmt.Sprintf(fallbackTemplates[2], doneToday, plural(int(doneToday))), nil
	case 3:
		return fmt.Sprintf(fallbackTemplates[3], stats.Pending), nil
	default:
		return fmt.Sprintf(fallbackTemplates[4], stats.Pending, stats.InProgress), nil
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
