package main

import (
	"context"
	"fmt"

	"github.com/societyhub/backend/internal/lifecycle"
	"github.com/societyhub/backend/internal/workflow"
	"github.com/spf13/cobra"
)

func newComplaintsCmd(a *app) *cobra.Command {
	complaints := &cobra.Command{
		Use:   "complaints",
		Short: "File and handle complaints",
	}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List complaints, optionally one status tab",
		Args:  cobra.NoArgs,
	}
	list.Flags().StringVar(&status, "status", "", "Received, Under Review, Taking Action, Dismissed or Resolved")
	list.RunE = a.run(func(ctx context.Context, _ []string) error {
		var tab lifecycle.ComplaintStatus
		if status != "" {
			st, err := lifecycle.ParseStatus(status)
			if err != nil {
				return err
			}
			tab = st
		}
		desk := workflow.NewComplaintDesk(ctx, a.client, a.deps)
		defer desk.Close()

		if _, err := desk.Refresh(ctx); err != nil {
			return err
		}
		for _, c := range desk.List(tab) {
			fmt.Fprintf(a.out, "%s\t%-13s\t%s\t%s (%s)\t%s\n",
				c.ID, c.Status, c.Title, c.ResidentName, c.FlatID, a.ago(c.CreatedAt))
		}
		return nil
	})

	open := &cobra.Command{
		Use:   "open <id>",
		Short: "Show a complaint; a Received complaint moves to Under Review",
		Args:  cobra.ExactArgs(1),
	}
	open.RunE = a.run(func(ctx context.Context, args []string) error {
		desk := workflow.NewComplaintDesk(ctx, a.client, a.deps)
		defer desk.Close()

		if _, err := desk.Refresh(ctx); err != nil {
			return err
		}
		c, err := desk.Open(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s\n%s\n\nStatus: %s\nFiled by %s, flat %s, %s\n",
			c.Title, c.Content, c.Status, c.ResidentName, c.FlatID, a.ago(c.CreatedAt))
		if c.Comment != "" {
			fmt.Fprintf(a.out, "Comment: %s\n", c.Comment)
		}
		for _, img := range c.Images {
			fmt.Fprintf(a.out, "Proof: %s\n", img)
		}
		if c.ReadOnly() {
			fmt.Fprintln(a.out, "This complaint is closed.")
			return nil
		}
		for _, next := range c.Controls() {
			fmt.Fprintf(a.out, "Next: %s\n", next)
		}
		return nil
	})

	var title, content string
	file := &cobra.Command{
		Use:   "file",
		Short: "File a complaint with your society",
		Args:  cobra.NoArgs,
	}
	file.Flags().StringVar(&title, "title", "", "complaint title")
	file.Flags().StringVar(&content, "content", "", "what happened")
	file.RunE = a.run(func(ctx context.Context, _ []string) error {
		desk := workflow.NewComplaintDesk(ctx, a.client, a.deps)
		defer desk.Close()

		c, err := desk.FileComplaint(ctx, title, content)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, c.ID)
		return nil
	})

	var comment string
	var proofs []string
	setStatus := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Move a complaint to a new status",
		Long: "Move a complaint to a new status. Resolved needs at least one --proof " +
			"image and Dismissed needs a --comment.",
		Args: cobra.ExactArgs(2),
	}
	setStatus.Flags().StringVar(&comment, "comment", "", "dismissal comment")
	setStatus.Flags().StringSliceVar(&proofs, "proof", nil, "proof image files")
	setStatus.RunE = a.run(func(ctx context.Context, args []string) error {
		target, err := lifecycle.ParseStatus(args[1])
		if err != nil {
			return err
		}
		if err := lifecycle.CheckEvidence(target, lifecycle.Evidence{
			Comment:     comment,
			ProofImages: len(proofs),
		}); err != nil {
			return err
		}
		images, err := readFiles(proofs)
		if err != nil {
			return err
		}
		desk := workflow.NewComplaintDesk(ctx, a.client, a.deps)
		defer desk.Close()

		if _, err := desk.Refresh(ctx); err != nil {
			return err
		}
		return desk.ChangeStatus(ctx, args[0], target, workflow.Resolution{
			Comment:     comment,
			ProofImages: images,
		})
	})

	complaints.AddCommand(list, open, file, setStatus)
	return complaints
}
