package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/societyhub/backend/internal/backend"
	"github.com/societyhub/backend/internal/lifecycle"
	"github.com/societyhub/backend/internal/workflow"
	"github.com/spf13/cobra"
)

func newNoticesCmd(a *app) *cobra.Command {
	notices := &cobra.Command{
		Use:   "notices",
		Short: "Browse, submit and approve notices",
	}

	var federation, pending bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List approved notices of your society",
		Args:  cobra.NoArgs,
	}
	list.Flags().BoolVar(&federation, "federation", false, "list your federation's notices instead")
	list.Flags().BoolVar(&pending, "pending", false, "list notices awaiting approval (staff)")
	list.RunE = a.run(func(ctx context.Context, _ []string) error {
		board := workflow.NewNoticeBoard(ctx, a.client, a.deps)
		defer board.Close()

		var items []workflow.NoticeItem
		var err error
		switch {
		case federation:
			items, err = board.ListFederation(ctx)
		default:
			scope, serr := a.scope()
			if serr != nil {
				return serr
			}
			if pending {
				items, err = board.ListPending(ctx, scope)
			} else {
				items, err = board.ListApproved(ctx, scope)
			}
		}
		for _, n := range items {
			a.printNotice(n)
		}
		return err
	})

	mine := &cobra.Command{
		Use:   "mine",
		Short: "List the notices you submitted",
		Args:  cobra.NoArgs,
	}
	mine.RunE = a.run(func(ctx context.Context, _ []string) error {
		board := workflow.NewNoticeBoard(ctx, a.client, a.deps)
		defer board.Close()

		list, err := board.MyNotices(ctx)
		for _, n := range list {
			state := "pending"
			if n.Approved {
				state = "approved"
			}
			fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", n.ID, state, n.Type.Label(), n.Title)
		}
		return err
	})

	var form noticeForm
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Submit a notice for committee approval",
		Args:  cobra.NoArgs,
	}
	form.bind(submit, false)
	submit.RunE = a.run(func(ctx context.Context, _ []string) error {
		images, err := readFiles(form.images)
		if err != nil {
			return err
		}
		board := workflow.NewNoticeBoard(ctx, a.client, a.deps)
		defer board.Close()

		n, err := board.SubmitNotice(ctx, workflow.NoticeSubmission{
			Title:       form.title,
			Description: form.description,
			Type:        lifecycle.NoticeType(form.kind),
			Images:      images,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, n.ID)
		return nil
	})

	var staffForm noticeForm
	post := &cobra.Command{
		Use:   "post",
		Short: "Publish an approved notice as society or federation staff",
		Args:  cobra.NoArgs,
	}
	staffForm.bind(post, true)
	post.RunE = a.run(func(ctx context.Context, _ []string) error {
		images, err := readFiles(staffForm.images)
		if err != nil {
			return err
		}
		board := workflow.NewNoticeBoard(ctx, a.client, a.deps)
		defer board.Close()

		n, err := board.PostStaffNotice(ctx, workflow.StaffNotice{
			Title:       staffForm.title,
			Description: staffForm.description,
			Type:        lifecycle.NoticeType(staffForm.kind),
			Images:      images,
			Options:     staffForm.options,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, n.ID)
		return nil
	})

	var edit backend.NoticeEdit
	var editFederation bool
	editCmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a notice's title, description or images",
		Args:  cobra.ExactArgs(1),
	}
	editCmd.Flags().StringVar(&edit.Title, "title", "", "new title")
	editCmd.Flags().StringVar(&edit.Description, "description", "", "new description")
	editCmd.Flags().StringSliceVar(&edit.Images, "image-url", nil, "image URLs to keep")
	editCmd.Flags().BoolVar(&editFederation, "federation", false, "edit a federation notice")
	editCmd.RunE = a.run(func(ctx context.Context, args []string) error {
		scope, err := a.scope()
		if err != nil {
			return err
		}
		if editFederation {
			id, err := a.identity.Current()
			if err != nil {
				return err
			}
			scope = workflow.FederationScope(id.FederationCode)
		}
		board := workflow.NewNoticeBoard(ctx, a.client, a.deps)
		defer board.Close()

		_, err = board.EditNotice(ctx, scope, args[0], edit)
		return err
	})

	approve := &cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending notice",
		Args:  cobra.ExactArgs(1),
	}
	approve.RunE = a.run(func(ctx context.Context, args []string) error {
		board := workflow.NewNoticeBoard(ctx, a.client, a.deps)
		defer board.Close()
		return board.Approve(ctx, args[0])
	})

	notices.AddCommand(list, mine, submit, post, editCmd, approve)
	return notices
}

type noticeForm struct {
	title       string
	description string
	kind        string
	images      []string
	options     []string
}

func (f *noticeForm) bind(cmd *cobra.Command, withOptions bool) {
	types := make([]string, len(lifecycle.NoticeTypes))
	for i, t := range lifecycle.NoticeTypes {
		types[i] = string(t)
	}
	cmd.Flags().StringVar(&f.title, "title", "", "notice title")
	cmd.Flags().StringVar(&f.description, "description", "", "notice text")
	cmd.Flags().StringVar(&f.kind, "type", string(lifecycle.NoticeGeneral), strings.Join(types, ", "))
	cmd.Flags().StringSliceVar(&f.images, "image", nil, "image files to attach, in order")
	if withOptions {
		cmd.Flags().StringArrayVar(&f.options, "option", nil, "poll option (repeatable)")
	}
}

// scope is the actor's society.
func (a *app) scope() (workflow.Scope, error) {
	id, err := a.identity.Current()
	if err != nil {
		return workflow.Scope{}, err
	}
	return workflow.SocietyScope(id.SocietyCode), nil
}

func (a *app) printNotice(n workflow.NoticeItem) {
	fmt.Fprintf(a.out, "%s  [%s] %s\n", n.ID, n.Type.Label(), n.Title)
	fmt.Fprintf(a.out, "    %s, flat %s, %s\n", n.AuthorName, n.FlatID, a.ago(n.CreatedAt))
	if n.Description != "" {
		fmt.Fprintf(a.out, "    %s\n", n.Description)
	}
	for _, img := range n.Images {
		fmt.Fprintf(a.out, "    image: %s\n", img)
	}
}

func newPollsCmd(a *app) *cobra.Command {
	polls := &cobra.Command{
		Use:   "polls",
		Short: "Show poll results and vote",
	}

	show := &cobra.Command{
		Use:   "show <notice-id>",
		Short: "Show a poll's options with their votes",
		Args:  cobra.ExactArgs(1),
	}
	show.RunE = a.run(func(ctx context.Context, args []string) error {
		board := workflow.NewPollBoard(ctx, a.client, a.deps)
		defer board.Close()

		opts, err := board.GetOptions(ctx, args[0])
		if err != nil {
			return err
		}
		a.printOptions(opts)
		return nil
	})

	vote := &cobra.Command{
		Use:   "vote <notice-id> <option-id>",
		Short: "Vote for one option of a poll",
		Args:  cobra.ExactArgs(2),
	}
	vote.RunE = a.run(func(ctx context.Context, args []string) error {
		board := workflow.NewPollBoard(ctx, a.client, a.deps)
		defer board.Close()

		err := board.Vote(ctx, args[0], args[1])
		if opts := board.Options(args[0]); len(opts) > 0 {
			a.printOptions(opts)
		}
		return err
	})

	polls.AddCommand(show, vote)
	return polls
}

func (a *app) printOptions(opts []backend.PollOption) {
	for _, o := range opts {
		fmt.Fprintf(a.out, "%s\t%d\t%s\n", o.ID, o.Votes, o.Text)
	}
}
