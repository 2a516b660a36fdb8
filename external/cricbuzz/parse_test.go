package cricbuzz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/riskibarqy/cricket-slots/internal/domain/match"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()

	raw, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	require.NoError(t, err)
	return doc
}

func TestClassifyStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want match.Status
	}{
		{raw: "India won by 5 wkts", want: match.StatusFinished},
		{raw: "Match tied (India won the Super Over)", want: match.StatusFinished},
		{raw: "Match abandoned due to rain", want: match.StatusFinished},
		{raw: "No result", want: match.StatusFinished},
		{raw: "IND 101/2 (30.1)", want: match.StatusLive},
		{raw: "Day 2: Stumps - Australia trail by 46 runs", want: match.StatusLive},
		{raw: "Australia need 120 runs in 90 balls", want: match.StatusLive},
		{raw: "India opt to bowl after winning the toss", want: match.StatusLive},
		{raw: "Innings Break", want: match.StatusLive},
		{raw: "Start delayed due to wet outfield", want: match.StatusLive},
		{raw: "LIVE", want: match.StatusLive},
		{raw: "Match starts at Dec 06, 04:00 GMT", want: match.StatusUpcoming},
		{raw: "", want: match.StatusUpcoming},
	}

	for _, tc := range tests {
		if got := ClassifyStatus(tc.raw); got != tc.want {
			t.Fatalf("classify %q got=%s want=%s", tc.raw, got, tc.want)
		}
	}
}

func TestParseMatchList(t *testing.T) {
	t.Parallel()

	items := ParseMatchList(loadFixture(t, "live_scores.html"))
	require.Len(t, items, 3)

	first := items[0]
	require.Equal(t, "91796", first.ExternalKey)
	require.Equal(t, "Australia vs India, 1st Test", first.Title)
	require.Equal(t, "Border-Gavaskar Trophy 2024-25", first.Series)
	require.Equal(t, "Australia", first.Teams[0].Name)
	require.Equal(t, "AUS", first.Teams[0].ShortName)
	require.Equal(t, "India", first.Teams[1].Name)
	require.Equal(t, "IND", first.Teams[1].ShortName)
	require.Equal(t, "Perth, Perth Stadium", first.Venue)
	require.Equal(t, match.StatusLive, first.Status)
	require.NotNil(t, first.StartTime)
	require.True(t, first.StartTime.Equal(time.Date(2024, 11, 22, 3, 0, 0, 0, time.UTC)))

	second := items[1]
	require.Equal(t, "91805", second.ExternalKey)
	require.Nil(t, second.StartTime)
	require.Empty(t, second.Venue)
	require.Equal(t, match.StatusUpcoming, second.Status)

	third := items[2]
	require.Equal(t, "91700", third.ExternalKey)
	require.Equal(t, "Ranji Trophy 2024-25", third.Series)
	require.Equal(t, "Mumbai", third.Teams[0].Name)
	require.Equal(t, "Baroda", third.Teams[1].Name)
	require.Equal(t, match.StatusFinished, third.Status)
}

func TestParseMatchList_EmptyPage(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body><p>maintenance</p></body></html>"))
	require.NoError(t, err)
	if got := ParseMatchList(doc); len(got) != 0 {
		t.Fatalf("expected no summaries, got=%d", len(got))
	}
	if got := ParseMatchList(nil); got != nil {
		t.Fatalf("expected nil for nil document, got=%v", got)
	}
}

func TestParseMatchInfo(t *testing.T) {
	t.Parallel()

	info := ParseMatchInfo(loadFixture(t, "match_facts.html"))
	require.NotNil(t, info)
	require.Equal(t, "Australia vs India, 2nd Test", info.Title)
	require.Equal(t, "Border-Gavaskar Trophy 2024-25", info.Series)
	require.Equal(t, "Adelaide Oval, Adelaide", info.Venue)
	require.Equal(t, "India won the toss and opt to bat", info.Toss)
	require.Equal(t, "Andy Pycroft", info.Referee)
	require.Equal(t, []string{"Richard Illingworth", "Michael Gough", "Chris Gaffaney"}, info.Umpires)
	require.Equal(t, "Australia", info.Teams[0].Name)
	require.Equal(t, "India", info.Teams[1].Name)
	require.Equal(t, match.StatusUpcoming, info.Status)
	require.NotNil(t, info.StartTime)
	require.True(t, info.StartTime.Equal(time.Date(2024, 12, 6, 4, 0, 0, 0, time.UTC)))
}

func TestParseMatchInfo_UnrecognizedPage(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body><div>nothing here</div></body></html>"))
	require.NoError(t, err)
	if got := ParseMatchInfo(doc); got != nil {
		t.Fatalf("expected nil info, got=%+v", got)
	}
}

func TestParseScorecard(t *testing.T) {
	t.Parallel()

	card := ParseScorecard(loadFixture(t, "scorecard.html"))
	require.NotNil(t, card)
	require.Equal(t, "India won by 295 runs", card.RawStatus)
	require.Equal(t, match.StatusFinished, card.Status)
	require.Len(t, card.Innings, 2)

	first := card.Innings[0]
	require.Equal(t, 1, first.Number)
	require.Equal(t, "India", first.TeamName)
	require.Len(t, first.Batting, 2)

	rahul := first.Batting[0]
	require.Equal(t, "8733", rahul.ExternalPlayerID)
	require.Equal(t, "KL Rahul", rahul.PlayerName)
	require.Equal(t, "c Carey b Starc", rahul.Dismissal)
	require.Equal(t, 30, rahul.Runs)
	require.Equal(t, 20, rahul.Balls)
	require.Equal(t, 3, rahul.Fours)
	require.Equal(t, 1, rahul.Sixes)
	require.InDelta(t, 150.0, rahul.StrikeRate, 0.001)
	require.True(t, rahul.IsOut)

	kohli := first.Batting[1]
	require.Equal(t, "Virat Kohli", kohli.PlayerName)
	require.Equal(t, 45, kohli.Runs)
	require.Equal(t, 30, kohli.Balls)
	require.False(t, kohli.IsOut)

	second := card.Innings[1]
	require.Equal(t, 2, second.Number)
	require.Equal(t, "Australia", second.TeamName)
	require.Len(t, second.Batting, 1)
	require.Equal(t, 10, second.Batting[0].Runs)
	require.True(t, second.Batting[0].IsOut)
}

func TestParseScorecard_NoInnings(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><div class="cb-scrcrd-status">Match starts at 10:00</div></body></html>`))
	require.NoError(t, err)
	if got := ParseScorecard(doc); got != nil {
		t.Fatalf("expected nil scorecard, got=%+v", got)
	}
}

func TestParseSquads(t *testing.T) {
	t.Parallel()

	squads := ParseSquads(loadFixture(t, "squads.html"))
	require.NotNil(t, squads)
	require.Len(t, squads.Teams, 2)

	india := squads.Teams[0]
	require.Equal(t, "India", india.TeamName)
	require.Len(t, india.PlayingXI, 2)
	require.Equal(t, "Rohit Sharma", india.PlayingXI[0].Name)
	require.Equal(t, "576", india.PlayingXI[0].ExternalPlayerID)
	require.Equal(t, "Batsman", india.PlayingXI[0].Role)
	require.True(t, india.PlayingXI[0].Captain)
	require.False(t, india.PlayingXI[0].WicketKeeper)
	require.Equal(t, "KL Rahul", india.PlayingXI[1].Name)
	require.True(t, india.PlayingXI[1].WicketKeeper)
	require.False(t, india.PlayingXI[1].Captain)
	require.Len(t, india.Bench, 1)
	require.Equal(t, "Shubman Gill", india.Bench[0].Name)

	australia := squads.Teams[1]
	require.Equal(t, "Australia", australia.TeamName)
	require.Len(t, australia.PlayingXI, 1)
	require.Equal(t, "Pat Cummins", australia.PlayingXI[0].Name)
	require.True(t, australia.PlayingXI[0].Captain)
	require.Empty(t, australia.Bench)
}

func TestExtractMatchKey(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"/live-cricket-scores/91796/aus-vs-ind-1st-test":          "91796",
		"https://www.cricbuzz.com/cricket-scores/91700/mum-vs-bar": "91700",
		"/live-cricket-scorecard/12345":                           "12345",
		"/cricket-series/8393/border-gavaskar-trophy":             "",
		"":                                                        "",
	}
	for href, want := range tests {
		if got := ExtractMatchKey(href); got != want {
			t.Fatalf("extract key %q got=%q want=%q", href, got, want)
		}
	}
}

func TestSplitPlayerMarkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		name    string
		captain bool
		keeper  bool
	}{
		{raw: "Rohit Sharma (c)", name: "Rohit Sharma", captain: true},
		{raw: "Rishabh Pant (wk)", name: "Rishabh Pant", keeper: true},
		{raw: "MS Dhoni (c & wk)", name: "MS Dhoni", captain: true, keeper: true},
		{raw: "Jasprit Bumrah", name: "Jasprit Bumrah"},
	}
	for _, tc := range tests {
		name, captain, keeper := splitPlayerMarkers(tc.raw)
		if name != tc.name || captain != tc.captain || keeper != tc.keeper {
			t.Fatalf("split %q got=(%q,%v,%v) want=(%q,%v,%v)", tc.raw, name, captain, keeper, tc.name, tc.captain, tc.keeper)
		}
	}
}
