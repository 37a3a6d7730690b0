package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/poiesic/todos/core"
)

var (
	cyan  = lipgloss.Color("#00FFFF")
	green = lipgloss.Color("#00FF00")
	gray  = lipgloss.Color("#808080")

	idStyle    = lipgloss.NewStyle().Foreground(gray)
	titleStyle = lipgloss.NewStyle().Bold(true)
	countStyle = lipgloss.NewStyle().Foreground(cyan)
	doneStyle  = lipgloss.NewStyle().Foreground(green)
	openStyle  = lipgloss.NewStyle()
)

// renderLists prints incomplete lists before complete ones.
func renderLists(w io.Writer, lists []*core.List) {
	if len(lists) == 0 {
		fmt.Fprintln(w, "no lists")
		return
	}
	for _, list := range core.PartitionLists(lists) {
		fmt.Fprintf(w, "%s  %s  %s\n",
			idStyle.Render(fmt.Sprintf("%3d", list.Id)),
			titleStyle.Render(list.Name),
			countStyle.Render(remaining(list)))
	}
}

// renderList prints open todos before completed ones.
func renderList(w io.Writer, list *core.List) {
	fmt.Fprintf(w, "%s  %s\n", titleStyle.Render(list.Name), countStyle.Render(remaining(list)))
	for _, todo := range core.PartitionTodos(list.Todos) {
		box, style := "[ ]", openStyle
		if todo.Completed {
			box, style = "[x]", doneStyle
		}
		fmt.Fprintf(w, "  %s %s %s\n", style.Render(box), idStyle.Render(fmt.Sprintf("%3d", todo.Id)), style.Render(todo.Name))
	}
}

func remaining(list *core.List) string {
	if list.IsComplete() {
		return "done"
	}
	return fmt.Sprintf("%d of %d remaining", list.TodosRemainingCount, list.TodosCount)
}
