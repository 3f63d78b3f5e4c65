package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		transcript string
		action     Action
		param      string
	}{
		{"Show me technology news", SearchNews, "technology"},
		{"SHOW ME SPORTS NEWS", SearchNews, "SPORTS"},
		{"  what's new in   science  ", SearchNews, "science"},
		{"open article 2", OpenArticle, "2"},
		{"Open article number 7", OpenArticle, "7"},
		{"go to article 3", OpenArticle, "3"},
		{"show article number 4", OpenArticle, "4"},
		{"next article", NextArticle, ""},
		{"Next articl", NextArticle, ""},
		{"previous article please", PreviousArticle, ""},
		{"read this article", ReadArticle, ""},
		{"read article", ReadArticle, ""},
		{"stop reading", StopReading, ""},
		{"Pause reading", PauseReading, ""},
		{"resume reading now", ResumeReading, ""},
		{"set reading language to Spanish", SetReadingLanguage, "Spanish"},
		{"set speaking language to  french ", SetSpeakingLanguage, "french"},
		{"show business category", ChangeCategory, "business"},
		{"refresh news", RefreshNews, ""},
		{"show help", ShowHelp, ""},
	}

	for _, tt := range tests {
		t.Run(tt.transcript, func(t *testing.T) {
			cmd, ok := Parse(tt.transcript)
			require.True(t, ok)
			assert.Equal(t, tt.action, cmd.Action)
			assert.Equal(t, tt.param, cmd.Param)
		})
	}
}

func TestParseUnrecognized(t *testing.T) {
	for _, transcript := range []string{"", "   ", "hello there", "open the pod bay doors", "what's new in"} {
		t.Run(transcript, func(t *testing.T) {
			cmd, ok := Parse(transcript)
			assert.False(t, ok)
			assert.Equal(t, Unrecognized, cmd.Action)
			assert.Empty(t, cmd.Param)
		})
	}
}

func TestParseBlankCaptureHasNoParam(t *testing.T) {
	cmd, ok := Parse("show me  news")
	require.True(t, ok)
	assert.Equal(t, SearchNews, cmd.Action)
	assert.False(t, cmd.HasParam())
}

func TestPriorityOrder(t *testing.T) {
	rules := Rules()

	t.Run("open article resolves to rule 3", func(t *testing.T) {
		idx, param := MatchFirst(rules, "open article 2")
		assert.Equal(t, 2, idx)
		assert.Equal(t, "2", param)
	})

	t.Run("go to article resolves to rule 4", func(t *testing.T) {
		idx, param := MatchFirst(rules, "go to article 3")
		assert.Equal(t, 3, idx)
		assert.Equal(t, "3", param)
	})

	t.Run("first rule wins when both phrasings appear", func(t *testing.T) {
		idx, param := MatchFirst(rules, "go to article 5 or open article 2")
		assert.Equal(t, 2, idx)
		assert.Equal(t, "2", param)
	})

	t.Run("search beats category", func(t *testing.T) {
		cmd, ok := Parse("show me sports category news")
		require.True(t, ok)
		assert.Equal(t, SearchNews, cmd.Action)
		assert.Equal(t, "sports category", cmd.Param)
	})

	t.Run("show article beats show category", func(t *testing.T) {
		cmd, ok := Parse("show article 2 category")
		require.True(t, ok)
		assert.Equal(t, OpenArticle, cmd.Action)
	})

	t.Run("topic search swallows embedded commands", func(t *testing.T) {
		cmd, ok := Parse("what's new in show help")
		require.True(t, ok)
		assert.Equal(t, SearchNews, cmd.Action)
		assert.Equal(t, "show help", cmd.Param)
	})
}

func TestRulesTable(t *testing.T) {
	rules := Rules()
	require.Len(t, rules, 15)

	want := []Action{
		SearchNews, SearchNews, OpenArticle, OpenArticle, NextArticle,
		PreviousArticle, ReadArticle, StopReading, PauseReading, ResumeReading,
		SetReadingLanguage, SetSpeakingLanguage, ChangeCategory, RefreshNews, ShowHelp,
	}
	for i, r := range rules {
		assert.Equal(t, want[i], r.Action, "rule %d", i+1)
		assert.LessOrEqual(t, r.Pattern.NumSubexp(), 1, "rule %d captures at most one group", i+1)

		cmd, ok := Parse(r.Example)
		require.True(t, ok, "example %q", r.Example)
		assert.Equal(t, r.Action, cmd.Action, "example %q", r.Example)
	}

	rules[0].Description = "mutated"
	assert.NotEqual(t, "mutated", Rules()[0].Description)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "search_news", SearchNews.String())
	assert.Equal(t, "show_help", ShowHelp.String())
	assert.Equal(t, "unrecognized", Action(99).String())

	b, err := OpenArticle.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "open_article", string(b))
}
