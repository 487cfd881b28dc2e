package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DescribeCall returns a one-line summary of a tool call.
func DescribeCall(name string, args map[string]any) string {
	switch name {
	case "read_file", "write_file":
		if path, ok := args["path"].(string); ok {
			return fmt.Sprintf("%s %s", name, path)
		}
	case "edit_file":
		if path, ok := args["file_path"].(string); ok {
			return fmt.Sprintf("%s %s", name, path)
		}
	case "list_files":
		if path, ok := args["path"].(string); ok {
			return fmt.Sprintf("%s %s", name, path)
		}
		return name + " ."
	case "execute_shell_command":
		if cmd, ok := args["command"].(string); ok {
			return fmt.Sprintf("%s '%s'", name, cmd)
		}
	}
	return name
}

// RenderPreview renders the details a user needs to approve a call, or ""
// when the tool has nothing worth previewing.
func RenderPreview(name string, args map[string]any, styles Styles) string {
	switch name {
	case "edit_file":
		return renderEditPreview(args, styles)
	case "write_file":
		content, _ := args["content"].(string)
		return styles.Detail.Render(fmt.Sprintf("%d characters", utf8.RuneCountInString(content)))
	case "execute_shell_command":
		return renderShellPreview(args, styles)
	default:
		return ""
	}
}

func renderEditPreview(args map[string]any, styles Styles) string {
	search, _ := args["search_block"].(string)
	replace, _ := args["replace_block"].(string)

	var sb strings.Builder
	if search == "" {
		sb.WriteString(styles.Detail.Render("(prepend)"))
		sb.WriteString("\n")
	} else {
		for _, line := range strings.Split(search, "\n") {
			sb.WriteString(styles.Removed.Render("- " + line))
			sb.WriteString("\n")
		}
	}
	for _, line := range strings.Split(replace, "\n") {
		sb.WriteString(styles.Added.Render("+ " + line))
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func renderShellPreview(args map[string]any, styles Styles) string {
	cmd, _ := args["command"].(string)
	out := "$ " + cmd
	if timeout, ok := args["timeout"]; ok {
		out += styles.Detail.Render(fmt.Sprintf("  (timeout %vs)", timeout))
	}
	return out
}
