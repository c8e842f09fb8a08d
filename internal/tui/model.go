package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/glabrego/lector-cli/internal/app"
	"github.com/glabrego/lector-cli/internal/newsapi"
	"github.com/glabrego/lector-cli/internal/reader"
	"github.com/glabrego/lector-cli/internal/render/text"
	"github.com/glabrego/lector-cli/internal/storage"
	"github.com/glabrego/lector-cli/internal/tui/actions"
	"github.com/glabrego/lector-cli/internal/tui/platform"
	"github.com/glabrego/lector-cli/internal/tui/state"
	tuitheme "github.com/glabrego/lector-cli/internal/tui/theme"
	"github.com/glabrego/lector-cli/internal/tui/tree"
	"github.com/glabrego/lector-cli/internal/tui/view"
)

const (
	sidebarWidth     = 32
	statusClearAfter = 4 * time.Second
)

type inputKind int

const (
	inputNone inputKind = iota
	inputSearch
	inputFeed
	inputChat
)

// Options carry the startup preferences resolved in main.
type Options struct {
	SidebarOpen    bool
	ChatModel      string
	VoiceID        string
	RequestTimeout time.Duration
}

type Model struct {
	service actions.FeedService
	client  actions.ArticleClient
	orch    *reader.Orchestrator
	th      tuitheme.Theme
	timeout time.Duration

	chatModel string
	voiceID   string

	width  int
	height int

	focus view.Focus
	input inputKind

	// sidebar tree
	categories        []app.Category
	bookmarks         []storage.Bookmark
	rows              []tree.Row
	treeCursor        int
	collapsedCats     map[string]bool
	collapsedSections map[string]bool
	sidebarOpen       bool
	search            string
	loadingSidebar    bool

	// article list
	articles    []newsapi.Article
	category    string
	source      string
	cursor      int
	loadingFeed bool

	// detail + panel
	inDetail  bool
	detailTop int
	panelTop  int

	// language picker
	pickingLanguage bool
	languageCursor  int

	// text entry
	feedInput string
	chatInput string

	showHelp bool
	spin     spinner.Model

	status   string
	warning  string
	statusID int

	openURLFn func(string) error
	copyURLFn func(string) error
}

func NewModel(service actions.FeedService, client actions.ArticleClient, orch *reader.Orchestrator, opts Options) Model {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	chatModel := opts.ChatModel
	if chatModel == "" {
		chatModel = reader.DefaultChatModel
	}
	spin := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	return Model{
		service:           service,
		spin:              spin,
		client:            client,
		orch:              orch,
		th:                tuitheme.Default(),
		timeout:           timeout,
		chatModel:         chatModel,
		voiceID:           opts.VoiceID,
		focus:             view.FocusSidebar,
		sidebarOpen:       opts.SidebarOpen,
		collapsedCats:     make(map[string]bool),
		collapsedSections: make(map[string]bool),
		openURLFn:         platform.OpenURLInBrowser,
		copyURLFn:         platform.CopyToClipboard,
	}
}

func (m Model) Init() tea.Cmd {
	if m.service == nil {
		return nil
	}
	return tea.Batch(actions.LoadSidebarCmd(m.service, m.timeout), m.spin.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loadingAny() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case actions.SidebarLoadedMsg:
		m.loadingSidebar = false
		m.categories = msg.Categories
		m.bookmarks = msg.Bookmarks
		m.rebuildRows()
		if i := state.RowCursorForSource(m.rows, m.category, m.source); i >= 0 {
			m.treeCursor = i
		} else if !state.SelectableRow(m.currentRow()) {
			if first := tree.FirstSelectableRow(m.rows); first >= 0 {
				m.treeCursor = first
			}
		}
		return m, nil
	case actions.SidebarLoadErrorMsg:
		m.loadingSidebar = false
		m.warning = msg.Err.Error()
		return m, nil

	case actions.FeedLoadedMsg:
		if msg.Category != m.category || msg.Source != m.source {
			return m, nil
		}
		m.loadingFeed = false
		m.articles = filterBySource(msg.Articles, msg.Source)
		m.cursor = m.cursorForOpenArticle()
		m.focus = view.FocusList
		return m, m.setStatus(fmt.Sprintf("Loaded %d articles", len(m.articles)))
	case actions.FeedLoadErrorMsg:
		m.loadingFeed = false
		m.warning = msg.Err.Error()
		return m, nil

	case actions.CustomFeedLoadedMsg:
		if m.category != "" || msg.Bookmark.Title != m.source {
			return m, nil
		}
		m.loadingFeed = false
		m.articles = msg.Articles
		m.cursor = m.cursorForOpenArticle()
		m.focus = view.FocusList
		return m, m.setStatus(fmt.Sprintf("Loaded %d articles", len(m.articles)))
	case actions.CustomFeedAddedMsg:
		m.loadingFeed = false
		m.articles = msg.Articles
		m.category = ""
		m.cursor = 0
		m.focus = view.FocusList
		return m, tea.Batch(
			actions.LoadSidebarCmd(m.service, m.timeout),
			m.setStatus("Custom feed added"),
		)
	case actions.CustomFeedErrorMsg:
		m.loadingFeed = false
		m.warning = msg.Err.Error()
		return m, nil
	case actions.BookmarkRemovedMsg:
		return m, tea.Batch(
			actions.LoadSidebarCmd(m.service, m.timeout),
			m.setStatus("Custom feed removed"),
		)

	case actions.ContentLoadedMsg:
		m.orch.Session.ApplyContent(msg.Generation, msg.Content)
		return m, nil
	case actions.ContentErrorMsg:
		if m.orch.Session.FailContent(msg.Generation, msg.Err) {
			m.warning = msg.Err.Error()
		}
		return m, nil

	case actions.TranslateDoneMsg:
		if m.orch.ApplyTranslation(msg.Seq, msg.ArticleID, msg.Language, msg.Text) {
			return m, m.setStatus("Translated to " + languageName(msg.Language))
		}
		return m, nil
	case actions.TranslateErrorMsg:
		if m.orch.FailTranslation(msg.Seq, msg.Err) {
			m.warning = fmt.Sprintf("translation failed: %v", msg.Err)
		}
		return m, nil

	case actions.SynthesisDoneMsg:
		out := m.orch.Narrator.ApplySynthesis(msg.Token, msg.Text, msg.Language, msg.Audio)
		if out.Action == reader.PlayStart {
			return m, actions.StartPlaybackCmd(out.Token, out.Audio)
		}
		return m, nil
	case actions.SynthesisErrorMsg:
		if m.orch.Narrator.FailSynthesis(msg.Token, msg.Err) {
			m.warning = fmt.Sprintf("narration failed: %v", msg.Err)
		}
		return m, nil
	case actions.PlaybackStartedMsg:
		if m.orch.Narrator.Started(msg.Token, msg.Player) {
			return m, actions.WaitPlaybackCmd(msg.Token, msg.Player)
		}
		return m, nil
	case actions.PlaybackEndedMsg:
		m.orch.Narrator.Ended(msg.Token)
		return m, nil
	case actions.PlaybackErrorMsg:
		if m.orch.Narrator.FailPlayback(msg.Token, msg.Err) {
			m.warning = fmt.Sprintf("playback failed: %v", msg.Err)
		}
		return m, nil

	case actions.SentimentDoneMsg:
		m.orch.Insight.ApplySentiment(msg.Seq, msg.Link, msg.Result)
		return m, nil
	case actions.SentimentErrorMsg:
		m.orch.Insight.FailSentiment(msg.Seq, msg.Err.Error())
		return m, nil

	case actions.ChatResponseMsg:
		chat := m.orch.Insight.Chat()
		if chat == nil || !chat.ApplyResponse(msg.Attempt, msg.Text) {
			return m, nil
		}
		if delay, active := chat.AdvanceTyping(msg.Attempt); active {
			return m, actions.TypingTickCmd(msg.Attempt, delay)
		}
		return m, nil
	case actions.ChatErrorMsg:
		if chat := m.orch.Insight.Chat(); chat != nil {
			chat.FailResponse(msg.Attempt, msg.Err)
		}
		return m, nil
	case actions.TypingTickMsg:
		chat := m.orch.Insight.Chat()
		if chat == nil {
			return m, nil
		}
		if delay, active := chat.AdvanceTyping(msg.Attempt); active {
			return m, actions.TypingTickCmd(msg.Attempt, delay)
		}
		return m, nil

	case actions.OpenURLSuccessMsg:
		return m, m.setStatus(msg.Status)
	case actions.OpenURLErrorMsg:
		m.warning = msg.Err.Error()
		return m, nil
	case actions.ClearStatusMsg:
		if msg.ID == m.statusID {
			m.status = ""
			m.warning = ""
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.orch.CloseArticle()
		return m, tea.Quit
	}

	if m.input != inputNone {
		return m.handleInputKey(msg)
	}
	if m.showHelp {
		switch key {
		case "esc", "?", "q":
			m.showHelp = false
		}
		return m, nil
	}
	if m.pickingLanguage {
		return m.handleLanguageKey(key)
	}

	switch key {
	case "q":
		m.orch.CloseArticle()
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "b":
		m.sidebarOpen = !m.sidebarOpen
		if !m.sidebarOpen && m.focus == view.FocusSidebar {
			m.focus = view.FocusList
		}
		return m, actions.SaveSidebarCmd(m.service, m.sidebarOpen, m.timeout)
	case "tab":
		m.cycleFocus()
		return m, nil
	case "r":
		m.loadingSidebar = true
		cmds := []tea.Cmd{actions.LoadSidebarCmd(m.service, m.timeout), m.spin.Tick}
		if reload := m.reloadCurrentFeed(); reload != nil {
			cmds = append(cmds, reload)
		}
		return m, tea.Batch(cmds...)
	}

	if m.inDetail {
		return m.handleDetailKey(key)
	}
	switch m.focus {
	case view.FocusSidebar:
		return m.handleSidebarKey(key)
	default:
		return m.handleListKey(key)
	}
}

func (m Model) handleSidebarKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.treeCursor > 0 {
			m.treeCursor--
		}
	case "down", "j":
		if m.treeCursor < len(m.rows)-1 {
			m.treeCursor++
		}
	case "g":
		m.treeCursor = 0
	case "G":
		if len(m.rows) > 0 {
			m.treeCursor = len(m.rows) - 1
		}
	case "J":
		m.treeCursor = state.NextSelectableRow(m.rows, m.treeCursor, 1)
	case "K":
		m.treeCursor = state.NextSelectableRow(m.rows, m.treeCursor, -1)
	case "left", "h":
		m.collapseCurrent(true)
	case "right", "l":
		m.collapseCurrent(false)
	case "/":
		m.input = inputSearch
	case "+":
		m.input = inputFeed
		m.feedInput = ""
	case "D":
		row := m.currentRow()
		if row.Kind == tree.RowBookmark {
			return m, actions.RemoveBookmarkCmd(m.service, row.URL, m.timeout)
		}
	case "esc":
		if m.search != "" {
			m.search = ""
			m.rebuildRows()
		}
	case "enter", " ":
		return m.activateRow()
	}
	return m, nil
}

// activateRow opens the feed under the cursor, or toggles collapse for
// grouping rows.
func (m Model) activateRow() (tea.Model, tea.Cmd) {
	row := m.currentRow()
	switch row.Kind {
	case tree.RowSection, tree.RowCategory:
		m.collapsedToggle(row)
		return m, nil
	case tree.RowSource:
		m.category = row.Category
		m.source = row.Source
		m.loadingFeed = true
		m.articles = nil
		return m, tea.Batch(actions.LoadFeedCmd(m.service, row.Category, row.Source, m.timeout), m.spin.Tick)
	case tree.RowBookmark:
		m.category = ""
		m.source = row.Label
		m.loadingFeed = true
		m.articles = nil
		bookmark := storage.Bookmark{Title: row.Label, URL: row.URL}
		return m, tea.Batch(actions.LoadCustomFeedCmd(m.service, bookmark, m.timeout), m.spin.Tick)
	}
	return m, nil
}

func (m *Model) collapsedToggle(row tree.Row) {
	switch row.Kind {
	case tree.RowSection:
		m.collapsedSections[row.Label] = !m.collapsedSections[row.Label]
	case tree.RowCategory:
		m.collapsedCats[row.Category] = !m.collapsedCats[row.Category]
	}
	m.rebuildRows()
}

func (m *Model) collapseCurrent(collapse bool) {
	row := m.currentRow()
	switch row.Kind {
	case tree.RowSection:
		m.collapsedSections[row.Label] = collapse
	case tree.RowCategory:
		m.collapsedCats[row.Category] = collapse
	case tree.RowSource:
		m.collapsedCats[row.Category] = collapse
	}
	m.rebuildRows()
}

func (m Model) handleListKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.articles)-1 {
			m.cursor++
		}
	case "g":
		m.cursor = 0
	case "G":
		if len(m.articles) > 0 {
			m.cursor = len(m.articles) - 1
		}
	case "pgup", "ctrl+b":
		m.cursor = state.ClampCursor(m.cursor-state.PageStep(m.bodyHeight(), true), len(m.articles))
	case "pgdown", "ctrl+f":
		m.cursor = state.ClampCursor(m.cursor+state.PageStep(m.bodyHeight(), true), len(m.articles))
	case "o":
		if article, ok := m.currentArticle(); ok {
			if validated, ok := m.validArticleURL(article.Link); ok {
				return m, actions.OpenURLCmd(validated, m.openURLFn, m.copyURLFn)
			}
		}
	case "y":
		if article, ok := m.currentArticle(); ok {
			if validated, ok := m.validArticleURL(article.Link); ok {
				return m, actions.CopyURLCmd(validated, m.copyURLFn)
			}
		}
	case "esc":
		if m.sidebarOpen {
			m.focus = view.FocusSidebar
		}
	case "enter":
		return m.openArticle()
	}
	return m, nil
}

// openArticle replaces the active session. A cache hit skips the
// content fetch entirely.
func (m Model) openArticle() (tea.Model, tea.Cmd) {
	article, ok := m.currentArticle()
	if !ok {
		return m, nil
	}
	generation, fetch := m.orch.OpenArticle(article)
	m.inDetail = true
	m.detailTop = 0
	m.panelTop = 0
	m.chatInput = ""
	m.focus = view.FocusDetail
	if fetch {
		return m, tea.Batch(actions.FetchContentCmd(m.client, generation, article.Link, m.timeout), m.spin.Tick)
	}
	return m, nil
}

func (m Model) handleDetailKey(key string) (tea.Model, tea.Cmd) {
	session := m.orch.Session

	switch key {
	case "esc", "backspace":
		if m.orch.Insight.Kind() != reader.PanelNone {
			m.orch.Insight.Hide()
			m.panelTop = 0
			m.focus = view.FocusDetail
			return m, nil
		}
		m.orch.CloseArticle()
		m.inDetail = false
		m.detailTop = 0
		m.focus = view.FocusList
		return m, nil
	case "up", "k":
		if m.focus == view.FocusPanel {
			if m.panelTop > 0 {
				m.panelTop--
			}
		} else if m.detailTop > 0 {
			m.detailTop--
		}
		return m, nil
	case "down", "j":
		if m.focus == view.FocusPanel {
			m.panelTop++
		} else {
			maxTop := view.DetailMaxTop(len(m.detailLines()), m.detailHeight())
			if m.detailTop < maxTop {
				m.detailTop++
			}
		}
		return m, nil
	case "o":
		if validated, ok := m.validArticleURL(session.ArticleRef().Link); ok {
			return m, actions.OpenURLCmd(validated, m.openURLFn, m.copyURLFn)
		}
		return m, nil
	case "y":
		if validated, ok := m.validArticleURL(session.ArticleRef().Link); ok {
			return m, actions.CopyURLCmd(validated, m.copyURLFn)
		}
		return m, nil
	case "t":
		if session.Loaded() {
			m.pickingLanguage = true
			m.languageCursor = languageIndex(session.CurrentLanguage())
		}
		return m, nil
	case " ":
		if session.Loaded() {
			out := m.orch.Narrator.Toggle(session.DisplayText(), session.CurrentLanguage())
			if cmd := m.dispatchPlay(out); cmd != nil {
				return m, tea.Batch(cmd, m.spin.Tick)
			}
		}
		return m, nil
	case "x":
		m.orch.Narrator.Stop()
		return m, nil
	case "i":
		return m.showSentiment()
	case "c":
		return m.showChat()
	}
	return m, nil
}

func (m Model) showSentiment() (tea.Model, tea.Cmd) {
	if !m.orch.Session.Loaded() {
		return m, nil
	}
	action, req := m.orch.Insight.ShowSentiment()
	m.focus = view.FocusPanel
	m.panelTop = 0
	if action == reader.SentimentFetch {
		return m, actions.SentimentCmd(m.client, req, m.timeout)
	}
	return m, nil
}

func (m Model) showChat() (tea.Model, tea.Cmd) {
	if !m.orch.Session.Loaded() {
		return m, nil
	}
	created := m.orch.Insight.Chat() == nil
	chat := m.orch.Insight.ShowChat()
	if created {
		chat.SetModel(m.chatModel)
	}
	m.focus = view.FocusPanel
	m.panelTop = 0
	m.input = inputChat
	return m, nil
}

// dispatchPlay converts a narration outcome into the async step it
// requires, if any.
func (m Model) dispatchPlay(out reader.PlayOutcome) tea.Cmd {
	switch out.Action {
	case reader.PlaySynthesize:
		return actions.SynthesizeCmd(m.client, out.Token, out.Text, m.voiceID, out.Language, m.timeout)
	case reader.PlayStart:
		return actions.StartPlaybackCmd(out.Token, out.Audio)
	}
	return nil
}

func (m Model) handleLanguageKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "esc", "t":
		m.pickingLanguage = false
	case "up", "k":
		if m.languageCursor > 0 {
			m.languageCursor--
		}
	case "down", "j":
		if m.languageCursor < len(Languages)-1 {
			m.languageCursor++
		}
	case "enter":
		m.pickingLanguage = false
		outcome, err := m.orch.Translate(Languages[m.languageCursor].Code)
		if err != nil {
			m.warning = err.Error()
			return m, nil
		}
		if outcome.Action == reader.TranslateFetch {
			return m, actions.TranslateCmd(m.client, outcome.Request, m.timeout)
		}
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		switch m.input {
		case inputSearch:
			m.search = ""
			m.rebuildRows()
		case inputFeed:
			m.feedInput = ""
		}
		m.input = inputNone
		return m, nil
	case "enter":
		return m.submitInput()
	case "backspace":
		m.trimInput()
		return m, nil
	case "ctrl+t":
		if m.input == inputChat {
			if chat := m.orch.Insight.Chat(); chat != nil {
				m.chatModel = chat.CycleModel()
			}
		}
		return m, nil
	case "tab":
		if m.input == inputChat {
			// Leave the prompt but keep the panel on screen.
			m.input = inputNone
			m.focus = view.FocusPanel
		}
		return m, nil
	default:
		if msg.Type == tea.KeyRunes || msg.String() == " " {
			m.appendInput(msg.String())
		}
		return m, nil
	}
}

func (m *Model) appendInput(s string) {
	switch m.input {
	case inputSearch:
		m.search += s
		m.rebuildRows()
	case inputFeed:
		m.feedInput += s
	case inputChat:
		m.chatInput += s
	}
}

func (m *Model) trimInput() {
	trim := func(s string) string {
		runes := []rune(s)
		if len(runes) == 0 {
			return s
		}
		return string(runes[:len(runes)-1])
	}
	switch m.input {
	case inputSearch:
		m.search = trim(m.search)
		m.rebuildRows()
	case inputFeed:
		m.feedInput = trim(m.feedInput)
	case inputChat:
		m.chatInput = trim(m.chatInput)
	}
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	switch m.input {
	case inputSearch:
		// Keep the filter applied, return key control to the tree on a
		// row that can actually be activated.
		m.input = inputNone
		m.treeCursor = state.SyncedSelectableCursor(m.rows, m.treeCursor)
		return m, nil
	case inputFeed:
		feedURL := strings.TrimSpace(m.feedInput)
		m.input = inputNone
		m.feedInput = ""
		if feedURL == "" {
			return m, nil
		}
		m.loadingFeed = true
		m.source = ""
		return m, tea.Batch(actions.AddCustomFeedCmd(m.service, feedURL, "", m.timeout), m.spin.Tick)
	case inputChat:
		return m.sendChat()
	}
	m.input = inputNone
	return m, nil
}

// sendChat issues the chat turn, or stops the in-flight generation
// when one is running.
func (m Model) sendChat() (tea.Model, tea.Cmd) {
	chat := m.orch.Insight.Chat()
	if chat == nil {
		m.input = inputNone
		return m, nil
	}
	out := chat.Send(m.chatInput)
	if out.Action != reader.SendIssued {
		return m, nil
	}
	m.chatInput = ""
	session := m.orch.Session
	ctx, cancel := context.WithCancel(context.Background())
	chat.BindCancel(out.Attempt, cancel)
	return m, actions.ChatCmd(ctx, m.client, out.Attempt, out.Messages, session.DisplayText(), session.ArticleRef().Title, out.Model)
}

func (m *Model) cycleFocus() {
	if m.inDetail {
		if m.orch.Insight.Kind() == reader.PanelNone {
			return
		}
		if m.focus == view.FocusDetail {
			m.focus = view.FocusPanel
			if m.orch.Insight.Kind() == reader.PanelChat {
				m.input = inputChat
			}
		} else {
			m.focus = view.FocusDetail
			m.input = inputNone
		}
		return
	}
	if m.focus == view.FocusSidebar || !m.sidebarOpen {
		m.focus = view.FocusList
	} else {
		m.focus = view.FocusSidebar
	}
}

func (m *Model) rebuildRows() {
	m.rows = tree.BuildRows(m.categories, m.bookmarks, tree.BuildOptions{
		CollapsedCategories: m.collapsedCats,
		CollapsedSections:   m.collapsedSections,
		Search:              m.search,
	})
	m.treeCursor = state.ClampCursor(m.treeCursor, len(m.rows))
}

func (m *Model) reloadCurrentFeed() tea.Cmd {
	if m.source == "" && m.category == "" {
		return nil
	}
	m.loadingFeed = true
	if m.category != "" {
		return actions.LoadFeedCmd(m.service, m.category, m.source, m.timeout)
	}
	for _, bookmark := range m.bookmarks {
		if bookmark.Title == m.source {
			return actions.LoadCustomFeedCmd(m.service, bookmark, m.timeout)
		}
	}
	return nil
}

func (m Model) currentRow() tree.Row {
	if m.treeCursor < 0 || m.treeCursor >= len(m.rows) {
		return tree.Row{}
	}
	return m.rows[m.treeCursor]
}

// cursorForOpenArticle keeps the list cursor on the article whose
// session is open when a reload brings it back, falling back to the
// top of the list.
func (m Model) cursorForOpenArticle() int {
	if !m.orch.Session.Selected() {
		return 0
	}
	if i := state.ArticleIndexByLink(m.articles, m.orch.Session.ArticleRef().Link); i >= 0 {
		return i
	}
	return 0
}

func (m Model) currentArticle() (newsapi.Article, bool) {
	if m.cursor < 0 || m.cursor >= len(m.articles) {
		return newsapi.Article{}, false
	}
	return m.articles[m.cursor], true
}

// validArticleURL rejects links the platform helpers should never see,
// surfacing the reason in the warning line.
func (m *Model) validArticleURL(raw string) (string, bool) {
	validated, err := platform.ValidateArticleURL(raw)
	if err != nil {
		m.warning = err.Error()
		return "", false
	}
	return validated, true
}

func (m *Model) setStatus(status string) tea.Cmd {
	m.status = status
	m.warning = ""
	m.statusID++
	return actions.ClearStatusCmd(m.statusID, statusClearAfter)
}

func filterBySource(articles []newsapi.Article, source string) []newsapi.Article {
	if source == "" {
		return articles
	}
	filtered := make([]newsapi.Article, 0, len(articles))
	for _, a := range articles {
		if a.SourceName == source {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func (m Model) currentFocus() view.Focus {
	if m.input != inputNone {
		return view.FocusInput
	}
	return m.focus
}

// bodyHeight is the vertical space left for the main pane after the
// title, toolbar, message and footer rows.
func (m Model) bodyHeight() int {
	h := m.height - 6
	if h < 4 {
		h = 4
	}
	return h
}

func (m Model) contentWidth() int {
	w := m.width - 2
	if m.width <= 0 {
		w = 78
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) listWidth() int {
	w := m.width
	if m.sidebarOpen {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) detailHeight() int {
	if m.orch.Insight.Kind() == reader.PanelNone {
		return m.bodyHeight()
	}
	return m.bodyHeight() / 2
}

func (m Model) panelHeight() int {
	return m.bodyHeight() - m.detailHeight() - 1
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.th.Title.Render("lector") + "  " + view.Toolbar(m.currentFocus()))
	b.WriteString("\n\n")

	switch {
	case m.showHelp:
		b.WriteString(m.helpView())
	case m.inDetail:
		b.WriteString(m.detailView())
	default:
		b.WriteString(m.browseView())
	}

	b.WriteString("\n")
	if m.loadingAny() {
		b.WriteString(m.spin.View() + " ")
	}
	b.WriteString(view.Message(m.loadingAny(), m.warning != "", m.status, m.warning, m.th))
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	return b.String()
}

func (m Model) loadingAny() bool {
	return m.loadingFeed || m.loadingSidebar || m.orch.Session.Loading() ||
		m.orch.Narrator.State() == reader.NarrationLoading
}

func (m Model) footer() string {
	session := m.orch.Session
	language := ""
	if session.Selected() {
		language = session.CurrentLanguage()
	}
	return view.Footer(
		m.currentFocus(),
		m.category,
		m.source,
		language,
		m.orch.Narrator.State().String(),
		len(m.articles),
		m.th,
	)
}

func (m Model) browseView() string {
	listPane := m.listView()
	if !m.sidebarOpen {
		return listPane
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), listPane)
}

func (m Model) sidebarView() string {
	var b strings.Builder
	if m.search != "" || m.input == inputSearch {
		b.WriteString("/" + m.search + "\n")
	}
	if len(m.rows) == 0 {
		b.WriteString("No feeds available.")
	} else {
		start, end := state.CenteredWindow(len(m.rows), m.treeCursor, m.bodyHeight()-1)
		b.WriteString(view.RenderSidebarBody(m.rows, start, end, m.treeCursor, m.collapsedCats, m.collapsedSections, m.th))
	}
	return lipgloss.NewStyle().Width(sidebarWidth).Render(b.String())
}

func (m Model) listView() string {
	if m.input == inputFeed {
		return "Add feed URL: " + m.feedInput + "\n"
	}
	if m.loadingFeed {
		return "Loading articles...\n"
	}
	if len(m.articles) == 0 {
		return "No articles. Pick a source on the left.\n"
	}

	selectedLink := ""
	if m.orch.Session.Selected() {
		selectedLink = m.orch.Session.ArticleRef().Link
	}

	var b strings.Builder
	start, end := state.CenteredWindow(len(m.articles), m.cursor, m.bodyHeight())
	for i := start; i < end; i++ {
		line := view.RenderArticleLine(view.ArticleLineParams{
			Article:    m.articles[i],
			VisiblePos: i,
			Active:     i == m.cursor && m.focus != view.FocusSidebar,
			Selected:   m.articles[i].Link == selectedLink,
			Width:      m.listWidth(),
		}, m.th)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) detailLines() []string {
	session := m.orch.Session
	ref := session.ArticleRef()
	return view.DetailLines(view.DetailParams{
		Title:       ref.Title,
		SourceName:  ref.SourceName,
		Published:   ref.Published,
		Authors:     session.Authors(),
		URL:         ref.Link,
		TopImage:    session.TopImage(),
		Language:    session.CurrentLanguage(),
		Translated:  session.Translated(),
		Translating: m.orch.Translator.Translating(),
		PendingLang: m.orch.Translator.PendingLanguage(),
		Body:        session.DisplayText(),
		Summary:     ref.Summary,
	}, m.contentWidth(), text.WrapText)
}

func (m Model) detailView() string {
	session := m.orch.Session
	if m.pickingLanguage {
		return m.languagePickerView()
	}
	if session.Loading() {
		return "Loading article...\n"
	}

	out := view.RenderDetailLines(m.detailLines(), m.detailTop, m.detailHeight())
	if m.orch.Insight.Kind() == reader.PanelNone {
		return out
	}
	return out + "\n" + m.panelView()
}

func (m Model) panelView() string {
	var lines []string
	switch m.orch.Insight.Kind() {
	case reader.PanelSentiment:
		lines = view.SentimentLines(m.orch.Insight.Sentiment(), m.contentWidth(), text.WrapText, m.th)
	case reader.PanelChat:
		lines = view.ChatLines(m.orch.Insight.Chat(), m.chatInput, m.contentWidth(), text.WrapText, m.th)
	default:
		return ""
	}
	top := m.panelTop
	if max := view.DetailMaxTop(len(lines), m.panelHeight()); top > max {
		top = max
	}
	return view.RenderDetailLines(lines, top, m.panelHeight())
}

func (m Model) languagePickerView() string {
	session := m.orch.Session
	var b strings.Builder
	b.WriteString(m.th.Section.Render("Translate to") + "\n\n")
	for i, lang := range Languages {
		label := lang.Name
		if lang.Code == session.DetectedLanguage() {
			label += " (detected)"
		}
		if lang.Code == session.CurrentLanguage() {
			label += " *"
		}
		b.WriteString(m.th.RenderActiveLine(i == m.languageCursor, label))
		b.WriteString("\n")
	}
	b.WriteString("\nenter select | esc cancel\n")
	return b.String()
}

func (m Model) helpView() string {
	lines := []string{
		"Navigation:",
		"  j/k or arrows move, g/G jump top/bottom, tab switches pane",
		"Sidebar:",
		"  enter opens a feed, left/right collapse/expand, / search",
		"  J/K jump to the next/previous openable row",
		"  + add a custom feed by URL, D remove it, b hide the sidebar",
		"Article:",
		"  enter opens the reader, esc/backspace returns to the list",
		"  t translate, space play/pause narration, x stop narration",
		"  i sentiment panel, c chat panel, o open URL, y copy URL",
		"Chat:",
		"  enter sends, enter again stops generation, ctrl+t cycles model",
		"",
		"? closes this help",
	}
	return strings.Join(lines, "\n")
}
