package cricbuzz

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/riskibarqy/cricket-slots/internal/usecase"
)

var (
	matchKeyRegex  = regexp.MustCompile(`/(?:live-cricket-scores|cricket-scores|live-cricket-scorecard|cricket-match-facts|cricket-match-squads)/(\d+)(?:/|$)`)
	profileIDRegex = regexp.MustCompile(`/profiles/(\d+)(?:/|$)`)
	inningsIDRegex = regexp.MustCompile(`innings_(\d+)`)
	teamsRegex     = regexp.MustCompile(`(?i)^\s*(.+?)\s+vs?\.?\s+(.+?)\s*$`)
	scoreLineRegex = regexp.MustCompile(`\d+/\d+`)
	spaceRegex     = regexp.MustCompile(`\s+`)

	finishedTerms = []string{"won", "tied", "abandoned", "no result"}
	liveTerms     = []string{"live", "trail by", "need", "toss", "break", "delayed"}
)

const statusSelector = ".cb-text-live, .cb-text-complete, .cb-text-inprogress, .cb-text-preview, .cb-text-stumps, " +
	".cb-text-lunch, .cb-text-tea, .cb-text-rain, .cb-text-abandon, .cb-text-innings-break, .cb-scrcrd-status, .cb-min-stts"

// ClassifyStatus maps free-form status text to a match status. Result terms
// win over live indicators; anything unrecognized is upcoming.
func ClassifyStatus(raw string) match.Status {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return match.StatusUpcoming
	}
	for _, term := range finishedTerms {
		if strings.Contains(text, term) {
			return match.StatusFinished
		}
	}
	if scoreLineRegex.MatchString(text) {
		return match.StatusLive
	}
	for _, term := range liveTerms {
		if strings.Contains(text, term) {
			return match.StatusLive
		}
	}
	return match.StatusUpcoming
}

// ParseMatchList extracts match summaries from a live-scores or series page.
// Entries without a recognizable match link are dropped.
func ParseMatchList(doc *goquery.Document) []usecase.ExternalMatchSummary {
	if doc == nil {
		return nil
	}

	pageSeries := cleanText(doc.Find("h1.cb-nav-hdr").First().Text())
	out := make([]usecase.ExternalMatchSummary, 0, 16)
	seen := make(map[string]struct{}, 16)

	doc.Find("div.cb-mtch-lst, div.cb-series-matches").Each(func(_ int, s *goquery.Selection) {
		link := s.Find("a.text-hvr-underline").First()
		if link.Length() == 0 {
			link = s.Find("a[href*='cricket-scores/']").First()
		}
		href, _ := link.Attr("href")
		key := ExtractMatchKey(href)
		if key == "" {
			return
		}
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}

		title, _ := link.Attr("title")
		title = cleanTitle(firstNonEmpty(cleanText(link.Text()), title))

		item := usecase.ExternalMatchSummary{
			ExternalKey: key,
			Title:       title,
			Series:      firstNonEmpty(seriesHeading(s), pageSeries),
			Teams:       teamsFromTitle(title),
			Venue:       venueFromDetail(cleanText(s.Find(".text-gray").First().Text())),
			StartTime:   parseTimestampAttr(s),
		}

		shortNames := make([]string, 0, 2)
		s.Find(".cb-hmscg-tm-nm").Each(func(_ int, team *goquery.Selection) {
			if name := cleanText(team.Text()); name != "" {
				shortNames = append(shortNames, name)
			}
		})
		for i := 0; i < len(shortNames) && i < 2; i++ {
			item.Teams[i].ShortName = shortNames[i]
		}

		item.RawStatus = cleanText(s.Find(statusSelector).First().Text())
		item.Status = ClassifyStatus(item.RawStatus)
		out = append(out, item)
	})

	return out
}

// ParseMatchInfo extracts the facts page of one match. It returns nil when
// the page carries no recognizable match header or facts table.
func ParseMatchInfo(doc *goquery.Document) *usecase.ExternalMatchInfo {
	if doc == nil {
		return nil
	}

	facts := make(map[string]string, 12)
	doc.Find(".cb-mtch-info-itm").Each(func(_ int, s *goquery.Selection) {
		label := strings.ToLower(strings.TrimSuffix(cleanText(s.Find(".cb-col-27").Text()), ":"))
		value := cleanText(s.Find(".cb-col-73").Text())
		if label != "" && value != "" {
			facts[label] = value
		}
	})

	title := cleanTitle(cleanText(doc.Find("h1.cb-nav-hdr").First().Text()))
	if title == "" && len(facts) == 0 {
		return nil
	}

	info := &usecase.ExternalMatchInfo{
		Title:   firstNonEmpty(title, facts["match"]),
		Series:  firstNonEmpty(facts["series"], cleanText(doc.Find(".cb-nav-subhdr a").First().Text())),
		Venue:   facts["venue"],
		Toss:    facts["toss"],
		Referee: facts["match referee"],
	}
	info.Teams = teamsFromTitle(info.Title)
	for _, key := range []string{"umpires", "third umpire"} {
		for _, name := range strings.Split(facts[key], ",") {
			if name = cleanText(name); name != "" {
				info.Umpires = append(info.Umpires, name)
			}
		}
	}

	info.StartTime = parseTimestampAttr(doc.Selection)
	if info.StartTime == nil {
		if content, ok := doc.Find("meta[itemprop='startDate']").First().Attr("content"); ok {
			info.StartTime = parseISOTime(content)
		}
	}

	info.RawStatus = cleanText(doc.Find(statusSelector).First().Text())
	info.Status = ClassifyStatus(info.RawStatus)
	return info
}

// ParseScorecard extracts the batting figures of every innings in source
// order. It returns nil when the page carries no innings at all.
func ParseScorecard(doc *goquery.Document) *usecase.ExternalScorecard {
	if doc == nil {
		return nil
	}

	card := &usecase.ExternalScorecard{
		RawStatus: cleanText(doc.Find(".cb-scrcrd-status").First().Text()),
	}
	card.Status = ClassifyStatus(card.RawStatus)

	doc.Find("div[id^='innings_']").Each(func(idx int, s *goquery.Selection) {
		number := idx + 1
		if id, ok := s.Attr("id"); ok {
			if m := inningsIDRegex.FindStringSubmatch(id); len(m) == 2 {
				if parsed, err := strconv.Atoi(m[1]); err == nil && parsed > 0 {
					number = parsed
				}
			}
		}

		block := s.Find(".cb-ltst-wgt-hdr").First()
		if block.Length() == 0 {
			block = s
		}

		innings := usecase.ExternalInnings{
			Number:   number,
			TeamName: inningsTeamName(block.Find(".cb-scrd-hdr-rw span").First().Text()),
			Batting:  make([]usecase.ExternalBattingEntry, 0, 11),
		}
		block.Find(".cb-scrd-itms").Each(func(_ int, row *goquery.Selection) {
			if entry, ok := parseBattingRow(row); ok {
				innings.Batting = append(innings.Batting, entry)
			}
		})
		card.Innings = append(card.Innings, innings)
	})

	if len(card.Innings) == 0 {
		return nil
	}
	return card
}

// ParseSquads extracts the playing XI and bench of both teams.
func ParseSquads(doc *goquery.Document) *usecase.ExternalSquads {
	if doc == nil {
		return nil
	}

	teams := []usecase.ExternalSquad{
		{TeamName: cleanText(doc.Find(".cb-team1").First().Text())},
		{TeamName: cleanText(doc.Find(".cb-team2").First().Text())},
	}
	found := false

	doc.Find(".cb-pl11-hdr").Each(func(_ int, hdr *goquery.Selection) {
		bench := strings.Contains(strings.ToLower(hdr.Text()), "bench")
		section := hdr.NextUntil(".cb-pl11-hdr")
		for side, selector := range []string{".cb-play11-lft-col", ".cb-play11-rt-col"} {
			players := parseSquadColumn(section.Filter(selector))
			if len(players) == 0 {
				continue
			}
			found = true
			if bench {
				teams[side].Bench = append(teams[side].Bench, players...)
			} else {
				teams[side].PlayingXI = append(teams[side].PlayingXI, players...)
			}
		}
	})

	if !found {
		return nil
	}
	return &usecase.ExternalSquads{Teams: teams}
}

// ExtractMatchKey returns the numeric match identifier embedded in a match URL.
func ExtractMatchKey(href string) string {
	m := matchKeyRegex.FindStringSubmatch(strings.TrimSpace(href))
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

func parseBattingRow(row *goquery.Selection) (usecase.ExternalBattingEntry, bool) {
	link := row.Find("a[href*='/profiles/']").First()
	dismissalCol := row.Find(".cb-col-33")
	if link.Length() == 0 || dismissalCol.Length() == 0 {
		return usecase.ExternalBattingEntry{}, false
	}

	cols := row.Children().Filter("div[class*='cb-col']")
	if cols.Length() < 6 {
		return usecase.ExternalBattingEntry{}, false
	}
	runs, err := strconv.Atoi(cleanText(cols.Eq(2).Text()))
	if err != nil {
		return usecase.ExternalBattingEntry{}, false
	}

	href, _ := link.Attr("href")
	dismissal := cleanText(dismissalCol.First().Text())
	entry := usecase.ExternalBattingEntry{
		ExternalPlayerID: profileID(href),
		PlayerName:       cleanPlayerName(link.Text()),
		Dismissal:        dismissal,
		Runs:             runs,
		Balls:            atoiOrZero(cols.Eq(3).Text()),
		Fours:            atoiOrZero(cols.Eq(4).Text()),
		Sixes:            atoiOrZero(cols.Eq(5).Text()),
		IsOut:            isDismissed(dismissal),
	}
	if cols.Length() > 6 {
		if rate, err := strconv.ParseFloat(cleanText(cols.Eq(6).Text()), 64); err == nil {
			entry.StrikeRate = rate
		}
	}
	return entry, true
}

func parseSquadColumn(col *goquery.Selection) []usecase.ExternalSquadPlayer {
	out := make([]usecase.ExternalSquadPlayer, 0, 11)
	col.Find("a[href*='/profiles/']").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		rawName := cleanText(link.Find(".cb-player-name-left div, .cb-player-name-right div").First().Text())
		if rawName == "" {
			rawName = cleanText(link.Text())
		}
		if rawName == "" {
			return
		}

		name, captain, keeper := splitPlayerMarkers(rawName)
		out = append(out, usecase.ExternalSquadPlayer{
			ExternalPlayerID: profileID(href),
			Name:             name,
			Role:             cleanText(link.Find("span.text-gray").First().Text()),
			Captain:          captain,
			WicketKeeper:     keeper,
		})
	})
	return out
}

func splitPlayerMarkers(raw string) (string, bool, bool) {
	name := raw
	captain, keeper := false, false
	if idx := strings.Index(raw, "("); idx > 0 && strings.HasSuffix(raw, ")") {
		marker := strings.ToLower(raw[idx+1 : len(raw)-1])
		captain = strings.Contains(marker, "c")
		keeper = strings.Contains(marker, "wk")
		name = strings.TrimSpace(raw[:idx])
	}
	return name, captain, keeper
}

func isDismissed(dismissal string) bool {
	text := strings.ToLower(strings.TrimSpace(dismissal))
	switch {
	case text == "", text == "batting", text == "not out":
		return false
	case strings.HasPrefix(text, "retired hurt"), strings.HasPrefix(text, "retired not out"):
		return false
	default:
		return true
	}
}

func seriesHeading(s *goquery.Selection) string {
	heading := s.PrevAllFiltered("h2.cb-lv-grn-strip, h2.cb-lv-scr-mtch-hdr").First()
	if heading.Length() == 0 {
		heading = s.Parent().Find("h2.cb-lv-grn-strip, h2.cb-lv-scr-mtch-hdr").First()
	}
	return cleanText(heading.Text())
}

func inningsTeamName(raw string) string {
	name := cleanText(raw)
	lower := strings.ToLower(name)
	for _, suffix := range []string{" 2nd innings", " 1st innings", " innings"} {
		if strings.HasSuffix(lower, suffix) {
			return strings.TrimSpace(name[:len(name)-len(suffix)])
		}
	}
	return name
}

func teamsFromTitle(title string) [2]usecase.ExternalTeam {
	var teams [2]usecase.ExternalTeam
	head, _, _ := strings.Cut(title, ",")
	m := teamsRegex.FindStringSubmatch(head)
	if len(m) != 3 {
		return teams
	}
	teams[0].Name = cleanText(m[1])
	teams[1].Name = cleanText(m[2])
	return teams
}

func venueFromDetail(detail string) string {
	if detail == "" {
		return ""
	}
	if _, after, ok := strings.Cut(detail, "•"); ok {
		return cleanText(after)
	}
	if _, after, ok := strings.Cut(detail, " at "); ok {
		return cleanText(after)
	}
	if _, after, ok := strings.Cut(detail, ", "); ok {
		return cleanText(after)
	}
	return ""
}

// parseTimestampAttr reads the first epoch-millisecond timestamp attribute
// under s.
func parseTimestampAttr(s *goquery.Selection) *time.Time {
	raw, ok := s.Find("[timestamp]").First().Attr("timestamp")
	if !ok {
		return nil
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || ms <= 0 {
		return nil
	}
	parsed := time.UnixMilli(ms).UTC()
	return &parsed
}

func parseISOTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z0700", "2006-01-02T15:04"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			parsed = parsed.UTC()
			return &parsed
		}
	}
	return nil
}

func mergeSummary(existing, incoming usecase.ExternalMatchSummary) usecase.ExternalMatchSummary {
	existing.Title = firstNonEmpty(existing.Title, incoming.Title)
	existing.Series = firstNonEmpty(existing.Series, incoming.Series)
	existing.Venue = firstNonEmpty(existing.Venue, incoming.Venue)
	for i := range existing.Teams {
		existing.Teams[i].Name = firstNonEmpty(existing.Teams[i].Name, incoming.Teams[i].Name)
		existing.Teams[i].ShortName = firstNonEmpty(existing.Teams[i].ShortName, incoming.Teams[i].ShortName)
	}
	if existing.StartTime == nil {
		existing.StartTime = incoming.StartTime
	}
	if existing.RawStatus == "" {
		existing.RawStatus = incoming.RawStatus
		existing.Status = incoming.Status
	}
	return existing
}

func profileID(href string) string {
	m := profileIDRegex.FindStringSubmatch(href)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

func cleanPlayerName(raw string) string {
	name, _, _ := splitPlayerMarkers(cleanText(raw))
	return name
}

func cleanTitle(raw string) string {
	title, _, _ := strings.Cut(raw, " - ")
	return strings.TrimSuffix(cleanText(title), ",")
}

func cleanText(raw string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(raw, " "))
}

func atoiOrZero(raw string) int {
	value, err := strconv.Atoi(cleanText(raw))
	if err != nil {
		return 0
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
