package main

import (
	"fmt"
	"slices"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nickburris/battlesnake/arena"
)

var totalTurns atomic.Int64

type runDone struct {
	results []arena.GameResult
	err     error
}

type arenaModel struct {
	games       int
	gamesPlayed int
	turns       int64
	startTime   time.Time
	recentGames []string
	updates     chan arena.GameResult
	done        chan runDone

	results []arena.GameResult
	err     error
}

func newArenaModel(games int, updates chan arena.GameResult, done chan runDone) arenaModel {
	return arenaModel{
		games:     games,
		startTime: time.Now(),
		updates:   updates,
		done:      done,
	}
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForUpdate(updates chan arena.GameResult) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func waitForDone(done chan runDone) tea.Cmd {
	return func() tea.Msg {
		return <-done
	}
}

func (m arenaModel) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), waitForDone(m.done), tickCmd())
}

func (m arenaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tickMsg:
		m.turns = totalTurns.Load()
		return m, tickCmd()
	case arena.GameResult:
		m.gamesPlayed++
		winner := msg.Winner
		if winner == "" {
			winner = "none"
		}
		line := fmt.Sprintf("%s: Winner %s, Turns %d", msg.ID[:8], winner, msg.Turns)
		m.recentGames = append([]string{line}, m.recentGames...)
		if len(m.recentGames) > 10 {
			m.recentGames = m.recentGames[:10]
		}
		return m, waitForUpdate(m.updates)
	case runDone:
		m.results, m.err = msg.results, msg.err
		m.turns = totalTurns.Load()
		return m, tea.Quit
	}
	return m, nil
}

func (m arenaModel) View() string {
	duration := time.Since(m.startTime)
	gamesPerSec := float64(m.gamesPlayed) / duration.Seconds()
	turnsPerSec := float64(m.turns) / duration.Seconds()
	if duration.Seconds() < 1 {
		gamesPerSec = 0
		turnsPerSec = 0
	}

	s := fmt.Sprintf("Games Played:   %d/%d\n", m.gamesPlayed, m.games)
	s += fmt.Sprintf("Total Turns:    %d\n", m.turns)
	s += fmt.Sprintf("Duration:       %s\n", duration.Round(time.Second))
	s += fmt.Sprintf("Games/Sec:      %.2f\n", gamesPerSec)
	s += fmt.Sprintf("Turns/Sec:      %.2f\n\n", turnsPerSec)

	s += "Recent Games:\n"
	for _, g := range m.recentGames {
		s += g + "\n"
	}

	s += "\nPress q to quit.\n"
	return s
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
