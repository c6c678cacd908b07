package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vishalbagda/MidWiseAi/internal/ai"
	"github.com/vishalbagda/MidWiseAi/internal/domain"
	"github.com/vishalbagda/MidWiseAi/internal/log"
	"github.com/vishalbagda/MidWiseAi/internal/metrics"
	"go.uber.org/zap"
)

const (
	greeting = "Hello! I'm MedWise AI, your healthcare assistant. I can help you understand prescriptions, manage medicines responsibly, and answer general health questions. How can I assist you today?"

	// хвост диалога, который уходит в промпт
	maxContextRunes = 6000
	msgTypeText     = "text"
)

var (
	startQuickReplies = []string{
		"Help with prescription",
		"Medicine disposal guidance",
		"OTC recommendations",
		"General health question",
	}
	chatFeatures = []string{
		"Prescription analysis",
		"Medicine management",
		"OTC suggestions",
		"Health education",
	}
	quickReplies = []domain.QuickReply{
		{Text: "How do I read my prescription?", Category: "prescription"},
		{Text: "Is this medicine expired?", Category: "expiry"},
		{Text: "Where can I donate unused medicines?", Category: "donation"},
		{Text: "What should I take for a headache?", Category: "otc"},
		{Text: "How do I dispose of old medicines?", Category: "disposal"},
		{Text: "Can I take these medicines together?", Category: "interactions"},
	}
)

type Chat struct {
	AI       ai.Gateway
	Sessions SessionStore
	Now      func() time.Time
}

type ChatStart struct {
	SessionID      string             `json:"sessionId"`
	InitialMessage domain.ChatMessage `json:"initialMessage"`
	QuickReplies   []string           `json:"quickReplies"`
	Features       []string           `json:"features"`
}

type SessionInfo struct {
	ID           string    `json:"id"`
	MessageCount int       `json:"messageCount"`
	LastActivity time.Time `json:"lastActivity"`
}

type ChatReply struct {
	UserMessage domain.ChatMessage `json:"userMessage"`
	BotMessage  domain.ChatMessage `json:"botMessage"`
	Suggestions []string           `json:"suggestions"`
	SessionInfo SessionInfo        `json:"sessionInfo"`
}

type ChatHistory struct {
	SessionID    string               `json:"sessionId"`
	Messages     []domain.ChatMessage `json:"messages"`
	MessageCount int                  `json:"messageCount"`
	CreatedAt    time.Time            `json:"createdAt"`
	LastActivity time.Time            `json:"lastActivity"`
}

type ChatEnd struct {
	Message      string `json:"message"`
	SessionID    string `json:"sessionId"`
	Duration     int64  `json:"duration"` // ms
	MessageCount int    `json:"messageCount"`
}

type QuickReplies struct {
	QuickReplies []domain.QuickReply `json:"quickReplies"`
	Categories   []string            `json:"categories"`
	Total        int                 `json:"total"`
}

func (c *Chat) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Chat) message(text, sender string) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        "msg_" + uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: c.now().UTC(),
		Type:      msgTypeText,
	}
}

func (c *Chat) Start(ctx context.Context) (*ChatStart, error) {
	now := c.now().UTC()
	hello := c.message(greeting, domain.SenderBot)
	s := &domain.ChatSession{
		ID:           "chat_" + uuid.NewString(),
		Messages:     []domain.ChatMessage{hello},
		StartTime:    now,
		LastActivity: now,
	}
	if err := c.Sessions.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("save chat session: %w", err)
	}
	c.track()
	return &ChatStart{
		SessionID:      s.ID,
		InitialMessage: hello,
		QuickReplies:   startQuickReplies,
		Features:       chatFeatures,
	}, nil
}

// Send appends the user's message, asks the model with the running context and
// appends its answer. Concurrent sends to one session are last-write-wins.
func (c *Chat) Send(ctx context.Context, sessionID, text string) (*ChatReply, error) {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(text) == "" {
		return nil, invalid("Missing required fields", "Session ID and message are required")
	}
	s, err := c.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrSessionNotFound
	}

	userMsg := c.message(text, domain.SenderUser)
	s.Messages = append(s.Messages, userMsg)

	res := c.AI.Generate(ctx, FeatureChat, buildChatPrompt(s.Context, text))
	reply := strings.TrimSpace(res.Text)
	if !res.OK() || reply == "" {
		reason := res.Failure
		if reason == ai.FailureNone {
			reason = ai.FailureEmpty
		}
		countFallback(FeatureChat, reason)
		reply = chatFallback(reason)
	}

	botMsg := c.message(reply, domain.SenderBot)
	s.Messages = append(s.Messages, botMsg)
	s.LastActivity = botMsg.Timestamp
	s.Context = tail(s.Context+"\nUser: "+text+"\nBot: "+reply, maxContextRunes)

	if err := c.Sessions.Put(ctx, s); err != nil {
		return nil, fmt.Errorf("save chat session: %w", err)
	}

	return &ChatReply{
		UserMessage: userMsg,
		BotMessage:  botMsg,
		Suggestions: Suggestions(text),
		SessionInfo: SessionInfo{ID: s.ID, MessageCount: len(s.Messages), LastActivity: s.LastActivity},
	}, nil
}

func (c *Chat) History(ctx context.Context, sessionID string) (*ChatHistory, error) {
	s, err := c.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrSessionNotFound
	}
	return &ChatHistory{
		SessionID:    s.ID,
		Messages:     s.Messages,
		MessageCount: len(s.Messages),
		CreatedAt:    s.StartTime,
		LastActivity: s.LastActivity,
	}, nil
}

func (c *Chat) End(ctx context.Context, sessionID string) (*ChatEnd, error) {
	s, err := c.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrSessionNotFound
	}
	if _, err := c.Sessions.Delete(ctx, sessionID); err != nil {
		return nil, err
	}
	c.track()
	return &ChatEnd{
		Message:      "Chat session ended successfully",
		SessionID:    s.ID,
		Duration:     c.now().Sub(s.StartTime).Milliseconds(),
		MessageCount: len(s.Messages),
	}, nil
}

func (c *Chat) QuickReplies() QuickReplies {
	cats := make([]string, 0, len(quickReplies))
	for _, q := range quickReplies {
		cats = append(cats, q.Category)
	}
	return QuickReplies{QuickReplies: quickReplies, Categories: cats, Total: len(quickReplies)}
}

var suggestionRules = []struct {
	keywords []string
	replies  []string
}{
	{
		keywords: []string{"prescription", "medicine"},
		replies:  []string{"Upload prescription for analysis", "Scan medicine strip", "Check medicine interactions"},
	},
	{
		keywords: []string{"pain", "headache", "fever"},
		replies:  []string{"Get OTC recommendations", "Learn about pain relievers", "When to see a doctor"},
	},
	{
		keywords: []string{"expired", "dispose", "old"},
		replies:  []string{"Find disposal locations", "Donation guidelines", "Safe disposal methods"},
	},
}

var defaultSuggestions = []string{
	"Ask another question",
	"Upload prescription",
	"Scan medicine strip",
	"Get OTC suggestions",
}

// Suggestions picks follow-up prompts by keyword. Rules are checked in order
// and the first one with a matching keyword wins.
func Suggestions(message string) []string {
	m := strings.ToLower(message)
	for _, r := range suggestionRules {
		for _, kw := range r.keywords {
			if strings.Contains(m, kw) {
				return append([]string(nil), r.replies...)
			}
		}
	}
	return append([]string(nil), defaultSuggestions...)
}

// RunSweeper removes idle sessions every interval until ctx is cancelled.
func (c *Chat) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.Sweep(ctx, idle)
		}
	}
}

func (c *Chat) Sweep(ctx context.Context, idle time.Duration) int {
	n, err := c.Sessions.Sweep(ctx, idle, c.now())
	if err != nil {
		log.L().Warn("chat sweep failed", zap.Error(err))
		return 0
	}
	if n > 0 {
		metrics.ChatSessionsSwept.Add(float64(n))
		log.L().Info("chat sessions swept", zap.Int("removed", n))
	}
	c.track()
	return n
}

// track refreshes the active gauge for stores that can count themselves.
func (c *Chat) track() {
	if l, ok := c.Sessions.(interface{ Len() int }); ok {
		metrics.ChatSessionsActive.Set(float64(l.Len()))
	}
}

func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
