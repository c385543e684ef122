package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"sepri/internal/checklist"
	"sepri/internal/defaults"
	"sepri/internal/domain"
	"sepri/internal/forms"
)

var newsCmd = &cobra.Command{
	Use:   "news",
	Short: "List news",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, n := range current.repo.News(cmd.Context()) {
			fmt.Fprintf(w, "%s\t%s\t%s\n", n.Date, n.Category, n.Title)
			fmt.Fprintf(w, "\t\t%s\n", n.Summary)
		}
		return w.Flush()
	},
}

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "List quick links",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, l := range current.repo.QuickLinks(cmd.Context()) {
			if l.IsEnabled {
				fmt.Fprintf(w, "%s\t%s\n", l.Title, l.URL)
			}
		}
		return w.Flush()
	},
}

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Show contact information and the team",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := current.repo.ContactInfo(cmd.Context())
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "Coordinador: %s (%s)\n", info.CoordinatorName, info.CoordinatorPhone)
		fmt.Fprintf(out, "Asistente:   %s (%s)\n", info.AssistantName, info.AssistantPhone)
		fmt.Fprintf(out, "Correo:      %s\n", info.Email)
		fmt.Fprintf(out, "Dirección:   %s\n", info.Address)

		if len(info.TeamMembers) > 0 {
			fmt.Fprintln(out, "\nEquipo:")
			for _, m := range info.TeamMembers {
				fmt.Fprintf(out, "  %d. %s, %s\n", m.Order+1, m.Name, m.Role)
			}
		}

		fmt.Fprintln(out, "\nLíneas de emergencia:")
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, l := range defaults.EmergencyLines() {
			fmt.Fprintf(w, "  %s\t%s\n", l.Name, l.Phone)
		}
		return w.Flush()
	},
}

var privacyCmd = &cobra.Command{
	Use:   "privacy",
	Short: "Show the privacy policy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		policy := current.repo.ContactInfo(cmd.Context()).PrivacyPolicy
		if policy == "" {
			policy = defaults.ContactInfo().PrivacyPolicy
		}
		fmt.Fprintln(cmd.OutOrStdout(), policy)
		return nil
	},
}

var protocolsCmd = &cobra.Command{
	Use:   "protocols",
	Short: "List protocols",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, p := range current.repo.Protocols(cmd.Context()) {
			fmt.Fprintf(w, "%s\t%s\t%d steps\n", p.ID, p.Title, len(p.BaseSteps))
		}
		return w.Flush()
	},
}

var protocolCmd = &cobra.Command{
	Use:   "protocol",
	Short: "Show or edit one protocol",
}

var protocolShowCmd = &cobra.Command{
	Use:   "show <protocol-id>",
	Short: "Show a protocol with its steps, questions and alerts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := current.repo.Protocol(cmd.Context(), args[0])
		if err != nil {
			return protocolNotFound(args[0], err)
		}
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%s\n%s\n", p.Title, p.Description)
		for _, a := range p.ActiveAlerts() {
			fmt.Fprintf(out, "[%s] %s\n", strings.ToUpper(string(a.Type)), a.Message)
		}
		if p.DocumentURL != "" {
			fmt.Fprintf(out, "Documento: %s\n", p.DocumentURL)
		}

		fmt.Fprintln(out, "\nPasos:")
		printSteps(out, p.BaseSteps, nil)

		if questions := checklist.Visible(p); len(questions) > 0 {
			fmt.Fprintln(out, "\nPreguntas:")
			for _, q := range questions {
				fmt.Fprintf(out, "  %s  %s\n", q.ID, q.Text)
			}
		}
		return nil
	},
}

var (
	yesAnswers []string
	noAnswers  []string
)

var checklistCmd = &cobra.Command{
	Use:   "checklist <protocol-id>",
	Short: "Compute the checklist of a protocol from yes/no answers",
	Long: `Compute the steps of a protocol. Every question answered with --yes may add
steps; answers are not stored.

Example:
  sepri checklist campamentos --yes has-food`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := current.repo.Protocol(cmd.Context(), args[0])
		if err != nil {
			return protocolNotFound(args[0], err)
		}

		answers := parseAnswers(yesAnswers, noAnswers)
		steps := checklist.ComputeSteps(p, answers, checklist.Catalog(defaults.ExtraSteps()))
		triggered := checklist.Triggered(p, steps)
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%s\n\n", p.Title)
		printSteps(out, steps, triggered)

		for _, q := range checklist.Visible(p) {
			yes, answered := answers[q.ID]
			if !answered {
				continue
			}
			content, formats := q.NoContent, q.NoFormats
			if yes {
				content, formats = q.YesContent, q.YesFormats
			}
			if content == "" && len(formats) == 0 {
				continue
			}
			fmt.Fprintf(out, "\n%s\n", q.Text)
			if content != "" {
				fmt.Fprintf(out, "  %s\n", content)
			}
			for _, f := range formats {
				fmt.Fprintf(out, "  %s: %s\n", f.Name, f.URL)
			}
		}
		return nil
	},
}

var protocolAddCmd = &cobra.Command{
	Use:   "add -f <file.yaml>",
	Short: "Add a protocol described in a YAML file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := current.requireManager(cmd.Context()); err != nil {
			return err
		}

		var p domain.Protocol
		if err := decodeYAMLFile(protocolFile, &p); err != nil {
			return err
		}

		added, err := current.repo.AddProtocol(cmd.Context(), p)
		if err != nil {
			return explain(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "protocol %s added\n", added.ID)
		return nil
	},
}

var protocolRemoveCmd = &cobra.Command{
	Use:   "remove <protocol-id>",
	Short: "Remove a protocol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := current.requireManager(cmd.Context()); err != nil {
			return err
		}
		if err := current.repo.RemoveProtocol(cmd.Context(), args[0]); err != nil {
			return protocolNotFound(args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "protocol %s removed\n", args[0])
		return nil
	},
}

var (
	protocolFile string
	stepFile     string
	removeStep   string
)

var protocolStepCmd = &cobra.Command{
	Use:   "step <protocol-id> (-f <step.yaml> | --remove <step-id>)",
	Short: "Add, edit or remove a step of a protocol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := current.requireManager(cmd.Context()); err != nil {
			return err
		}

		if removeStep != "" {
			if err := current.repo.RemoveProtocolStep(cmd.Context(), args[0], removeStep); err != nil {
				return protocolNotFound(args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "step %s removed\n", removeStep)
			return nil
		}

		if stepFile == "" {
			return fmt.Errorf("either -f or --remove is required")
		}
		var step domain.Step
		if err := decodeYAMLFile(stepFile, &step); err != nil {
			return err
		}

		saved, err := current.repo.UpdateProtocolStep(cmd.Context(), args[0], step)
		if err != nil {
			return protocolNotFound(args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "step %s saved at position %d\n", saved.ID, saved.Order+1)
		return nil
	},
}

var showAllPopups bool

var popupsCmd = &cobra.Command{
	Use:   "popups",
	Short: "Show notices not yet dismissed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		popups := current.repo.ActivePopups(cmd.Context())
		if showAllPopups {
			popups = current.repo.Popups(cmd.Context())
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, p := range popups {
			state := ""
			if showAllPopups && !p.IsEnabled {
				state = "(disabled)"
			}
			fmt.Fprintf(w, "%s\t[%s]\t%s\t%s %s\n", p.ID, p.Type, p.Title, p.Content, state)
		}
		return w.Flush()
	},
}

var popupsDismissCmd = &cobra.Command{
	Use:   "dismiss <popup-id>",
	Short: "Hide a notice for the rest of the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return explain(current.repo.DismissPopup(cmd.Context(), args[0]))
	},
}

var popupEnabled bool

var popupsToggleCmd = &cobra.Command{
	Use:   "toggle <popup-id> --enabled=<bool>",
	Short: "Enable or disable a notice for everyone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := current.requireManager(cmd.Context()); err != nil {
			return err
		}
		if err := current.repo.TogglePopup(cmd.Context(), args[0], popupEnabled); err != nil {
			return explain(err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "popup %s enabled=%t\n", args[0], popupEnabled)
		return nil
	},
}

var formsCmd = &cobra.Command{
	Use:   "forms <protocol-id>",
	Short: "List the forms of a protocol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, f := range current.repo.FormsForProtocol(cmd.Context(), args[0]) {
			fmt.Fprintf(w, "%s\t%s\t%s\n", f.ID, f.Title, f.Description)
			for _, field := range f.Fields {
				required := ""
				if field.Required {
					required = "*"
				}
				fmt.Fprintf(w, "\t  %s%s\t%s (%s)\n", field.ID, required, field.Label, field.Type)
			}
		}
		return w.Flush()
	},
}

var (
	formValues []string
	formDir    string
)

var formsRenderCmd = &cobra.Command{
	Use:   "render <form-id> --set <field-id>=<value>...",
	Short: "Fill in a form and save it as a text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		form, err := current.repo.Form(ctx, args[0])
		if err != nil {
			return err
		}
		responses, err := parseSet(formValues)
		if err != nil {
			return err
		}

		title := form.EventID
		if p, err := current.repo.Protocol(ctx, form.EventID); err == nil {
			title = p.Title
		}

		name, body, err := forms.Render(form, title, responses)
		if err != nil {
			return err
		}

		path := filepath.Join(formDir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return fmt.Errorf("write form: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\nsaved to %s\n", body, path)
		return nil
	},
}

func init() {
	checklistCmd.Flags().StringSliceVar(&yesAnswers, "yes", nil, "question ids answered yes")
	checklistCmd.Flags().StringSliceVar(&noAnswers, "no", nil, "question ids answered no")

	protocolAddCmd.Flags().StringVarP(&protocolFile, "file", "f", "", "protocol YAML file")
	_ = protocolAddCmd.MarkFlagRequired("file")
	protocolStepCmd.Flags().StringVarP(&stepFile, "file", "f", "", "step YAML file")
	protocolStepCmd.Flags().StringVar(&removeStep, "remove", "", "id of the step to remove")
	protocolStepCmd.MarkFlagsMutuallyExclusive("file", "remove")
	protocolCmd.AddCommand(protocolShowCmd, protocolAddCmd, protocolRemoveCmd, protocolStepCmd)

	popupsCmd.Flags().BoolVar(&showAllPopups, "all", false, "include dismissed and disabled notices")
	popupsToggleCmd.Flags().BoolVar(&popupEnabled, "enabled", true, "new state of the notice")
	popupsCmd.AddCommand(popupsDismissCmd, popupsToggleCmd)

	formsRenderCmd.Flags().StringArrayVar(&formValues, "set", nil, "answer as field-id=value")
	formsRenderCmd.Flags().StringVar(&formDir, "dir", ".", "directory the text file is written to")
	formsCmd.AddCommand(formsRenderCmd)

	rootCmd.AddCommand(newsCmd, linksCmd, contactCmd, privacyCmd, protocolsCmd, protocolCmd, checklistCmd, popupsCmd, formsCmd)
}

func printSteps(out io.Writer, steps []domain.Step, triggered []string) {
	for i, s := range steps {
		mark := " "
		for _, id := range triggered {
			if id == s.ID {
				mark = "+"
			}
		}
		fmt.Fprintf(out, "%s %d. %s", mark, i+1, s.Title)
		if s.Deadline != "" {
			fmt.Fprintf(out, " (%s)", s.Deadline)
		}
		fmt.Fprintln(out)
		if s.Description != "" {
			fmt.Fprintf(out, "     %s\n", s.Description)
		}
		if s.IsDownloadable && s.DownloadURL != "" {
			fmt.Fprintf(out, "     formato: %s\n", s.DownloadURL)
		}
		if s.VideoURL != "" {
			fmt.Fprintf(out, "     video: %s\n", s.VideoURL)
		}
	}
}

func protocolNotFound(id string, err error) error {
	if domain.IsNotFound(err, "protocol", id) {
		return fmt.Errorf("protocol %q does not exist; run `sepri protocols` to list them", id)
	}
	return explain(err)
}

func parseAnswers(yes, no []string) domain.Answers {
	answers := domain.Answers{}
	for _, id := range no {
		answers[id] = false
	}
	for _, id := range yes {
		answers[id] = true
	}
	return answers
}

func parseSet(values []string) (forms.Responses, error) {
	responses := forms.Responses{}
	for _, v := range values {
		id, value, ok := strings.Cut(v, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid --set %q, expected field-id=value", v)
		}
		responses[id] = value
	}
	return responses, nil
}

// decodeYAMLFile reads YAML using the same camelCase keys as the JSON wire
// format.
func decodeYAMLFile(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert %s: %w", path, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
