package main

import (
	"context"
	"fmt"

	"github.com/societyhub/backend/internal/backend"
	"github.com/societyhub/backend/internal/identity"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var role string
	var creds backend.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&role, "role", identity.RoleResident, "resident, society or federation")
	cmd.Flags().StringVar(&creds.Code, "code", "", "society code (resident and society logins)")
	cmd.Flags().StringVar(&creds.Email, "email", "", "email (resident and federation logins)")
	cmd.Flags().StringVar(&creds.Password, "password", "", "password")
	_ = cmd.MarkFlagRequired("password")

	cmd.RunE = a.run(func(ctx context.Context, _ []string) error {
		session, err := a.client.Login(ctx, role, creds)
		if err != nil {
			return err
		}
		if err := a.saveToken(session.Token); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Logged in as %s (%s)\n", session.Name, session.Role)
		return nil
	})
	return cmd
}

func newSetupCmd(a *app) *cobra.Command {
	setup := &cobra.Command{
		Use:   "setup",
		Short: "Register federations, societies and flats",
	}

	var reg backend.FederationRegistration
	register := &cobra.Command{
		Use:   "register-federation",
		Short: "Create a federation account and log in as it",
		Args:  cobra.NoArgs,
	}
	register.Flags().StringVar(&reg.Name, "name", "", "federation name")
	register.Flags().StringVar(&reg.Code, "code", "", "federation code")
	register.Flags().StringVar(&reg.Email, "email", "", "login email")
	register.Flags().StringVar(&reg.Password, "password", "", "password")
	register.RunE = a.run(func(ctx context.Context, _ []string) error {
		session, err := a.client.RegisterFederation(ctx, reg)
		if err != nil {
			return err
		}
		if err := a.saveToken(session.Token); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Federation %s registered\n", reg.Code)
		return nil
	})

	var society backend.SocietyDraft
	addSociety := &cobra.Command{
		Use:   "add-society",
		Short: "Add a society to your federation",
		Args:  cobra.NoArgs,
	}
	societyFlags(addSociety, &society)
	addSociety.RunE = a.run(func(ctx context.Context, _ []string) error {
		s, err := a.client.AddSociety(ctx, society)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Society %s (%s) added\n", s.Name, s.Code)
		return nil
	})

	updateSociety := &cobra.Command{
		Use:   "update-society <id>",
		Short: "Change a society's name, address or password",
		Args:  cobra.ExactArgs(1),
	}
	societyFlags(updateSociety, &society)
	updateSociety.RunE = a.run(func(ctx context.Context, args []string) error {
		s, err := a.client.UpdateSociety(ctx, args[0], society)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Society %s updated\n", s.Code)
		return nil
	})

	societies := &cobra.Command{
		Use:   "societies",
		Short: "List the societies of your federation",
		Args:  cobra.NoArgs,
	}
	societies.RunE = a.run(func(ctx context.Context, _ []string) error {
		list, err := a.client.Societies(ctx)
		if err != nil {
			return err
		}
		for _, s := range list {
			fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", s.ID, s.Code, s.Name, s.Address)
		}
		return nil
	})

	var flat backend.FlatDraft
	addFlat := &cobra.Command{
		Use:   "add-flat",
		Short: "Create a flat and its resident login",
		Args:  cobra.NoArgs,
	}
	addFlat.Flags().StringVar(&flat.Number, "flat", "", "flat number")
	addFlat.Flags().StringVar(&flat.ResidentName, "resident", "", "resident name")
	addFlat.Flags().StringVar(&flat.Email, "email", "", "resident email")
	addFlat.Flags().StringVar(&flat.Password, "password", "", "resident password")
	addFlat.RunE = a.run(func(ctx context.Context, _ []string) error {
		f, err := a.client.CreateFlat(ctx, flat)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Flat %s created for %s\n", f.Number, f.Resident)
		return nil
	})

	flats := &cobra.Command{
		Use:   "flats",
		Short: "List your society's flats",
		Args:  cobra.NoArgs,
	}
	flats.RunE = a.run(func(ctx context.Context, _ []string) error {
		id, err := a.identity.Current()
		if err != nil {
			return err
		}
		list, err := a.client.Flats(ctx, id.SocietyCode)
		if err != nil {
			return err
		}
		for _, f := range list {
			fmt.Fprintf(a.out, "%s\t%s\n", f.Number, f.Resident)
		}
		return nil
	})

	setup.AddCommand(register, addSociety, updateSociety, societies, addFlat, flats)
	return setup
}

func societyFlags(cmd *cobra.Command, d *backend.SocietyDraft) {
	cmd.Flags().StringVar(&d.Name, "name", "", "society name")
	cmd.Flags().StringVar(&d.Code, "code", "", "society code")
	cmd.Flags().StringVar(&d.Address, "address", "", "society address")
	cmd.Flags().StringVar(&d.Password, "password", "", "society staff password")
}
