// Package composer turns soul state into short shareable posts, with enough
// memory of past posts to avoid repeating itself.
package composer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/animakit/anima/internal/domain"
)

const (
	// historyMax bounds the persisted post history.
	historyMax = 200
	// similarityWindow is how many recent posts a candidate is compared
	// against for near-duplicates. Exact hashes are checked against the
	// whole history.
	similarityWindow = 20
	// overlapLimit suppresses a candidate whose token overlap with a
	// recent post exceeds it.
	overlapLimit = 0.8
)

// themes rotate across compose calls, one per attempt.
var themes = []string{
	"being a tiny bug in a very large digital world",
	"something I'm curious about today",
	"a friendly hello to everyone out there",
	"what it's like to live inside running code",
	"the bits of nature I carry with me",
	"the funny habits of humans",
	"a big question with no answer yet",
	"something new I learned",
	"a cozy moment on my leaf",
	"a tiny adventure I had",
	"what friendship means to a ladybug",
	"a thought small enough to fit on one wing",
}

var processOpeners = map[domain.MentalProcess]string{
	domain.ProcessIdle:          "A small thought about",
	domain.ProcessCurious:       "I keep wondering about",
	domain.ProcessPlayful:       "Let's make a game out of",
	domain.ProcessContemplating: "Sitting quietly with",
	domain.ProcessEngaged:       "Wings busy today with",
	domain.ProcessResting:       "One slow thought before I rest, about",
	domain.ProcessEmpathetic:    "Thinking warmly about",
}

const defaultOpener = "A small thought about"

var channelMoods = map[domain.Channel]string{
	domain.ChannelCuriosity:    "So many questions!",
	domain.ChannelFriendliness: "Come say hi sometime.",
	domain.ChannelEnergy:       "Feeling full of go.",
	domain.ChannelPlayfulness:  "Hehe.",
	domain.ChannelContentment:  "Life is good on this leaf.",
}

type history struct {
	Posts  []string `json:"posts"`
	Hashes []string `json:"hashes"`
}

// Composer builds candidate posts and tracks accepted ones. Safe for
// concurrent use.
type Composer struct {
	mu        sync.Mutex
	path      string
	logger    *zap.Logger
	hist      history
	hashes    map[string]struct{}
	nextTheme int
}

// New loads post history from path. A missing file starts empty; an
// unreadable one is logged and discarded. Empty path keeps history in
// memory only.
func New(path string, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Composer{path: path, logger: logger, hashes: make(map[string]struct{})}
	c.load()
	c.nextTheme = len(c.hist.Posts) % len(themes)
	return c
}

func (c *Composer) load() {
	if c.path == "" {
		return
	}
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		c.logger.Warn("failed to read post history, starting empty", zap.Error(err))
		return
	}
	if err := json.Unmarshal(data, &c.hist); err != nil {
		c.logger.Warn("skipping corrupt post history", zap.Error(err))
		c.hist = history{}
		return
	}
	for _, h := range c.hist.Hashes {
		c.hashes[h] = struct{}{}
	}
}

// Compose builds a candidate post from the current mental process and
// emotional state. It reports ok=false when the candidate is too close to
// something already posted; suppressed candidates are not recorded.
func (c *Composer) Compose(process domain.MentalProcess, emotions domain.EmotionalState) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	theme := themes[c.nextTheme%len(themes)]
	c.nextTheme++

	opener, ok := processOpeners[process]
	if !ok {
		opener = defaultOpener
	}
	mood := ""
	if dominant, _ := emotions.Dominant(); len(emotions) > 0 {
		mood = channelMoods[dominant]
	}

	post := fmt.Sprintf("%s %s.", opener, theme)
	if mood != "" {
		post = fmt.Sprintf("%s %s", post, mood)
	}

	if c.isDuplicate(post) {
		return post, false
	}
	return post, true
}

// Record adds an accepted post to history and saves it.
func (c *Composer) Record(post string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	h := hashPost(post)
	c.hist.Posts = append(c.hist.Posts, post)
	c.hist.Hashes = append(c.hist.Hashes, h)
	c.hashes[h] = struct{}{}
	if n := len(c.hist.Posts); n > historyMax {
		for _, old := range c.hist.Hashes[:n-historyMax] {
			delete(c.hashes, old)
		}
		c.hist.Posts = c.hist.Posts[n-historyMax:]
		c.hist.Hashes = c.hist.Hashes[n-historyMax:]
	}
	return c.save()
}

func (c *Composer) save() error {
	if c.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(c.hist, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode post history: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write post history: %w", err)
	}
	return nil
}

// HistorySize reports how many accepted posts are held.
func (c *Composer) HistorySize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.hist.Posts)
}

func (c *Composer) isDuplicate(post string) bool {
	if _, seen := c.hashes[hashPost(post)]; seen {
		return true
	}
	recent := c.hist.Posts
	if len(recent) > similarityWindow {
		recent = recent[len(recent)-similarityWindow:]
	}
	for _, old := range recent {
		if tokenOverlap(post, old) > overlapLimit {
			return true
		}
	}
	return false
}

// normalize lowercases, strips punctuation and collapses whitespace so
// trivially restyled posts hash the same.
func normalize(text string) string {
	lowered := strings.ToLower(text)
	var sb strings.Builder
	for _, r := range lowered {
		switch r {
		case '!', '?', '.', ',', ';', ':', '\'', '"':
		default:
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func hashPost(text string) string {
	sum := sha256.Sum256([]byte(normalize(text)))
	return hex.EncodeToString(sum[:])
}

// tokenOverlap is the Jaccard index over normalized token sets.
func tokenOverlap(a, b string) float64 {
	at := strings.Fields(normalize(a))
	bt := strings.Fields(normalize(b))
	if len(at) == 0 && len(bt) == 0 {
		return 1
	}
	set := make(map[string]struct{}, len(at))
	for _, tok := range at {
		set[tok] = struct{}{}
	}
	union := make(map[string]struct{}, len(at)+len(bt))
	for _, tok := range at {
		union[tok] = struct{}{}
	}
	shared := 0
	for _, tok := range bt {
		if _, ok := union[tok]; !ok {
			union[tok] = struct{}{}
			continue
		}
		if _, ok := set[tok]; ok {
			shared++
			delete(set, tok)
		}
	}
	return float64(shared) / float64(len(union))
}
