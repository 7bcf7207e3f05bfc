package main

import (
	"context"
	"fmt"

	"github.com/societyhub/backend/internal/workflow"
	"github.com/spf13/cobra"
)

func newBlogsCmd(a *app) *cobra.Command {
	blogs := &cobra.Command{
		Use:   "blogs",
		Short: "Read and write community blogs",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your society's blogs",
		Args:  cobra.NoArgs,
	}
	list.RunE = a.run(func(ctx context.Context, _ []string) error {
		board := workflow.NewCommunityBoard(ctx, a.client, a.deps)
		defer board.Close()

		items, err := board.List(ctx)
		for _, b := range items {
			fmt.Fprintf(a.out, "%s  %s\n    by %s, %s\n", b.ID, b.Title, b.AuthorName, a.ago(b.CreatedAt))
		}
		return err
	})

	var form blogForm
	add := &cobra.Command{
		Use:   "add",
		Short: "Publish a blog",
		Args:  cobra.NoArgs,
	}
	form.bind(add)
	add.RunE = a.run(func(ctx context.Context, _ []string) error {
		post, err := form.post()
		if err != nil {
			return err
		}
		board := workflow.NewCommunityBoard(ctx, a.client, a.deps)
		defer board.Close()

		b, err := board.Publish(ctx, post)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, b.ID)
		return nil
	})

	var editForm blogForm
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Rewrite a blog you wrote",
		Args:  cobra.ExactArgs(1),
	}
	editForm.bind(update)
	update.RunE = a.run(func(ctx context.Context, args []string) error {
		post, err := editForm.post()
		if err != nil {
			return err
		}
		board := workflow.NewCommunityBoard(ctx, a.client, a.deps)
		defer board.Close()

		_, err = board.Update(ctx, args[0], post)
		return err
	})

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a blog",
		Args:  cobra.ExactArgs(1),
	}
	del.RunE = a.run(func(ctx context.Context, args []string) error {
		board := workflow.NewCommunityBoard(ctx, a.client, a.deps)
		defer board.Close()
		return board.Delete(ctx, args[0])
	})

	blogs.AddCommand(list, add, update, del)
	return blogs
}

type blogForm struct {
	title   string
	content string
	image   string
}

func (f *blogForm) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "blog title")
	cmd.Flags().StringVar(&f.content, "content", "", "blog text")
	cmd.Flags().StringVar(&f.image, "image", "", "optional cover image file")
}

func (f *blogForm) post() (workflow.BlogPost, error) {
	post := workflow.BlogPost{Title: f.title, Content: f.content}
	if f.image != "" {
		files, err := readFiles([]string{f.image})
		if err != nil {
			return post, err
		}
		post.Image = &files[0]
	}
	return post, nil
}

func newDocumentsCmd(a *app) *cobra.Command {
	docs := &cobra.Command{
		Use:   "documents",
		Short: "Share society documents",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your society's documents",
		Args:  cobra.NoArgs,
	}
	list.RunE = a.run(func(ctx context.Context, _ []string) error {
		shelf := workflow.NewDocumentShelf(ctx, a.client, a.deps)
		defer shelf.Close()

		shared, err := shelf.List(ctx)
		for _, d := range shared {
			fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", d.ID, d.Title, d.URL, a.ago(d.CreatedAt))
		}
		return err
	})

	var title string
	upload := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file and share it as a document",
		Args:  cobra.ExactArgs(1),
	}
	upload.Flags().StringVar(&title, "title", "", "document title")
	upload.RunE = a.run(func(ctx context.Context, args []string) error {
		files, err := readFiles(args)
		if err != nil {
			return err
		}
		shelf := workflow.NewDocumentShelf(ctx, a.client, a.deps)
		defer shelf.Close()

		doc, err := shelf.Upload(ctx, title, files[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, doc.URL)
		return nil
	})

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a document",
		Args:  cobra.ExactArgs(1),
	}
	del.RunE = a.run(func(ctx context.Context, args []string) error {
		shelf := workflow.NewDocumentShelf(ctx, a.client, a.deps)
		defer shelf.Close()
		return shelf.Delete(ctx, args[0])
	})

	docs.AddCommand(list, upload, del)
	return docs
}
