package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pixil98/go-survival/internal/display"
	"github.com/pixil98/go-survival/internal/world"
)

// Admin is the line-oriented operator console served over telnet and ssh.
// It reads one command per line and answers with wrapped plain text. All
// world access goes through the same public mutations clients use, so the
// console can never corrupt state.
type Admin struct {
	state *world.State
}

func NewAdmin(state *world.State) *Admin {
	return &Admin{state: state}
}

func (a *Admin) RunSession(ctx context.Context, conn io.ReadWriter) error {
	fmt.Fprintf(conn, "survival world console. type 'help' for commands.\n")

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]

		if cmd == "quit" || cmd == "exit" {
			fmt.Fprintf(conn, "bye\n")
			return nil
		}

		out, err := a.dispatch(cmd, args)
		if err != nil {
			fmt.Fprintf(conn, "error: %v\n", err)
			continue
		}
		fmt.Fprint(conn, display.Wrap(out))
	}
	return scanner.Err()
}

func (a *Admin) dispatch(cmd string, args []string) (string, error) {
	switch cmd {
	case "help":
		return helpText, nil
	case "weather":
		return a.weather(), nil
	case "clock", "time":
		return a.clock(), nil
	case "stats":
		return a.stats(), nil
	case "players":
		return a.players(), nil
	case "set_weather":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: set_weather <name>")
		}
		if err := a.state.DebugSetWeather(args[0], time.Now()); err != nil {
			return "", err
		}
		return a.weather(), nil
	case "set_time":
		if len(args) != 1 {
			return "", fmt.Errorf("usage: set_time <phase>")
		}
		if err := a.state.DebugSetTime(args[0]); err != nil {
			return "", err
		}
		return a.clock(), nil
	case "check":
		if err := a.state.CheckInvariants(); err != nil {
			return "", err
		}
		return "all invariants hold\n", nil
	}
	return "", fmt.Errorf("unknown command %q, try 'help'", cmd)
}

const helpText = `commands:
  weather              current weather
  clock                time of day, day of year, season
  stats                row counts across the world tables
  players              connected survivors and their vitals
  set_weather <name>   force weather (clear, light_rain, moderate_rain, heavy_rain, heavy_storm)
  set_time <phase>     jump the clock to a phase
  check                run the state invariant sweep
  quit                 close the session
`

func (a *Admin) weather() string {
	w := a.state.Weather()
	var b strings.Builder
	fmt.Fprintf(&b, "weather: %s\n", w.Current)
	if w.RainIntensity > 0 {
		fmt.Fprintf(&b, "rain intensity: %.2f, ends in %s\n",
			w.RainIntensity, time.Until(w.StartedAt.Add(w.Duration)).Round(time.Second))
	}
	return b.String()
}

func (a *Admin) clock() string {
	c := a.state.Clock()
	return fmt.Sprintf("%s, day %d (%s), cycle %d, progress %.2f\n",
		c.Phase(), c.DayOfYear, c.Season(), c.CycleCount, c.CycleProgress)
}

func (a *Admin) stats() string {
	st := a.state.Stats()
	var b strings.Builder
	fmt.Fprintf(&b, "players %d, items %d\n", st.Players, st.Items)
	fmt.Fprintf(&b, "boxes %d, campfires %d, furnaces %d, lanterns %d\n",
		st.Boxes, st.Campfires, st.Furnaces, st.Lanterns)
	fmt.Fprintf(&b, "shelters %d, walls %d, fences %d, foundations %d\n",
		st.Shelters, st.Walls, st.Fences, st.Foundations)
	fmt.Fprintf(&b, "seeds %d, resources %d, projectiles %d\n",
		st.Seeds, st.Resources, st.Projectiles)
	return b.String()
}

func (a *Admin) players() string {
	ps := a.state.Players()
	if len(ps) == 0 {
		return "no survivors\n"
	}
	var b strings.Builder
	for _, p := range ps {
		status := "alive"
		if p.Dead {
			status = "dead"
		} else if p.KnockedOut {
			status = "knocked out"
		}
		fmt.Fprintf(&b, "%s at (%.0f, %.0f) %s hp=%.0f hunger=%.0f thirst=%.0f warmth=%.0f\n",
			p.Identity, p.Pos.X, p.Pos.Y, status,
			p.Vitals.Health, p.Vitals.Hunger, p.Vitals.Thirst, p.Vitals.Warmth)
	}
	return b.String()
}
