package tui

const Logo = `
 ██   ██      ▄████▄      ███▄ ▄███
 ██   ██     ██    ██     ██ ███ ██
 ███████     ████████     ██  ▀  ██
 ██   ██     ██    ██     ██     ██
 ██   ██ ██  ██    ██ ██  ██     ██`

// Banner is the one-line title shown above the dashboard.
const Banner = "H.A.M  Hamster Assistant Masters"

func (m *Model) LogoView() string {
	return m.theme.TextAccent().Render(Logo)
}
