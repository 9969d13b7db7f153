package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/grego360/daily-dashboard/internal/domain"
)

const minContentWidth = 60

// View renders the full dashboard
func (m *Model) View() string {
	width := m.width
	if width < minContentWidth {
		width = minContentWidth
	}
	half := width/2 - 2

	var sections []string

	sections = append(sections, m.styles.title.Render("Daily Dashboard"))
	if m.banner != "" {
		sections = append(sections, m.styles.banner.Width(width-2).Render("scan error: "+m.banner))
	}

	top := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.framed(panelNews, half, m.renderNews()),
		lipgloss.JoinVertical(
			lipgloss.Left,
			m.framed(panelWeather, half, m.renderWeather()),
			m.framed(panelLinks, half, m.renderLinks()),
		),
	)
	sections = append(sections, top)
	sections = append(sections, m.framed(panelNetwork, width-2, m.renderNetwork()))
	sections = append(sections, m.renderStatusBar(width))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// framed wraps panel content in a border, highlighted when focused
func (m *Model) framed(p panel, width int, content string) string {
	style := m.styles.panel
	if m.focus == p {
		style = m.styles.active
	}
	return style.Width(width).Render(content)
}

func (m *Model) renderNews() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("News"))
	if m.fetching {
		b.WriteString(" " + m.spin.View())
	}
	b.WriteString("\n")

	if len(m.news) == 0 {
		if m.fetching {
			b.WriteString(m.styles.dim.Render("Loading..."))
		} else {
			b.WriteString(m.styles.dim.Render("No feeds configured"))
		}
		return b.String()
	}

	for _, feed := range m.news {
		b.WriteString("\n" + m.styles.highlight.Render(feed.Name) + "\n")
		if feed.Err != nil {
			b.WriteString(m.styles.bad.Render("  error: "+feed.Err.Error()) + "\n")
			continue
		}
		if len(feed.Items) == 0 {
			b.WriteString(m.styles.dim.Render("  no items") + "\n")
			continue
		}
		for _, item := range feed.Items {
			b.WriteString("  " + item.DisplayTitle() + "\n")
			if rel := item.RelativeTime(); rel != "" {
				b.WriteString("  " + m.styles.dim.Render(rel) + "\n")
			}
		}
	}
	return b.String()
}

func (m *Model) renderWeather() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Weather") + "\n")

	w := m.weatherData
	switch {
	case w == nil:
		b.WriteString(m.styles.dim.Render("Loading..."))
	case w.Error != "":
		b.WriteString(m.styles.bad.Render(w.Error))
	default:
		if w.LocationName != "" {
			b.WriteString(m.styles.highlight.Render(w.LocationName) + "\n")
		}
		if w.Current != nil {
			b.WriteString(fmt.Sprintf("%.1f%s  wind %.1f %s\n",
				w.Current.Temperature, w.Current.TemperatureUnit,
				w.Current.WindSpeed, w.Current.WindSpeedUnit))
		}
		for _, day := range w.Daily {
			line := fmt.Sprintf("%s  %.0f/%.0f°", day.Date.Format("Mon"), day.TempMin, day.TempMax)
			if day.PrecipitationProbability > 0 {
				line += m.styles.dim.Render(fmt.Sprintf("  %d%% rain", day.PrecipitationProbability))
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func (m *Model) renderLinks() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Links") + "\n")

	if len(m.cfg.Links) == 0 {
		b.WriteString(m.styles.dim.Render("No links configured"))
		return b.String()
	}

	for _, cat := range m.cfg.Links {
		b.WriteString(m.styles.highlight.Render(cat.Name) + "\n")
		for _, link := range cat.Links {
			b.WriteString("  " + link.Name + " " + m.styles.dim.Render(link.URL) + "\n")
		}
	}
	return b.String()
}

func (m *Model) renderNetwork() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Network"))
	if m.scanning {
		b.WriteString(" " + m.spin.View() + m.styles.dim.Render(" scanning"))
	}
	b.WriteString("\n")

	if len(m.cfg.Network.Targets) == 0 {
		b.WriteString(m.styles.dim.Render("No scan targets configured"))
		return b.String()
	}
	if len(m.scans) == 0 {
		if !m.scanning {
			b.WriteString(m.styles.dim.Render("No scan results yet, press s to scan"))
		}
		return b.String()
	}

	names := make([]string, 0, len(m.scans))
	for name := range m.scans {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result := m.scans[name]
		header := fmt.Sprintf("%s (%s)", name, result.TargetRange)
		b.WriteString("\n" + m.styles.highlight.Render(header))
		if result.Error != "" {
			b.WriteString("\n" + m.styles.bad.Render("  "+result.Error) + "\n")
			continue
		}
		b.WriteString(m.styles.dim.Render(fmt.Sprintf("  %d up, %d down, %s",
			result.HostsUp(), result.HostsDown(), result.Duration.Round(time.Millisecond))) + "\n")

		if len(result.Hosts) == 0 {
			b.WriteString(m.styles.dim.Render("  no hosts found") + "\n")
			continue
		}
		for _, h := range result.Hosts {
			b.WriteString(m.renderHost(h) + "\n")
		}
	}
	return b.String()
}

// renderHost formats one host row
func (m *Model) renderHost(h domain.HostRecord) string {
	var marker string
	switch {
	case h.Status == domain.HostStatusDown:
		marker = m.styles.bad.Render("✗")
	case h.IsNew:
		marker = m.styles.warn.Render("●")
	default:
		marker = m.styles.good.Render("●")
	}

	line := "  " + marker + " " + h.DisplayName()
	if h.IP != "" && h.Hostname != "" {
		line += m.styles.dim.Render(" " + h.IP)
	}
	if h.IsNew {
		line += " " + m.styles.warn.Render("NEW")
	}
	if h.IsExpected && h.Status == domain.HostStatusDown {
		line += " " + m.styles.bad.Render("expected, missing")
	}
	if len(h.OpenPorts) > 0 {
		ports := make([]string, len(h.OpenPorts))
		for i, p := range h.OpenPorts {
			ports[i] = fmt.Sprint(p)
		}
		line += m.styles.dim.Render(" [" + strings.Join(ports, " ") + "]")
	}
	return line
}

func (m *Model) renderStatusBar(width int) string {
	parts := []string{greeting(m.cfg.Settings.UserName, m.clock)}

	if m.info != nil {
		if m.info.LocalIP != "" {
			parts = append(parts, "lan "+m.info.LocalIP)
		}
		if m.info.PublicIP != "" {
			parts = append(parts, "wan "+m.info.PublicIP)
		}
	}
	parts = append(parts, m.clock.Format("15:04"))
	parts = append(parts, "q quit · r refresh · s scan · tab focus")

	return m.styles.statusBar.Width(width).Render(strings.Join(parts, "  |  "))
}

// greeting builds the time-appropriate salutation for the status bar
func greeting(name string, now time.Time) string {
	var salute string
	switch hour := now.Hour(); {
	case hour < 12:
		salute = "Good morning"
	case hour < 17:
		salute = "Good afternoon"
	case hour < 21:
		salute = "Good evening"
	default:
		salute = "Good night"
	}

	name = strings.TrimSpace(name)
	if len(name) > 30 {
		name = name[:30] + "…"
	}
	if name == "" {
		return salute + "!"
	}
	return salute + ", " + name + "!"
}
