// portfolio - a scroll-driven 3D portfolio page in the terminal.
//
// Controls:
//
//	Wheel, j/k    - Scroll
//	PgUp/PgDn     - Scroll one page
//	Home/End      - First/last section
//	Mouse motion  - Parallax
//	Tab           - Focus the chat input (Esc to leave it)
//	Enter         - Send the chat message
//	?             - Toggle HUD overlay
//	Esc, q        - Quit
package main

func main() {
	Execute()
}
