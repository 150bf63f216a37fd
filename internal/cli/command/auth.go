package command

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	guardweb "github.com/GFG374/sdn-traffic-guard-web"
	"github.com/GFG374/sdn-traffic-guard-web/internal/cli/output"
)

// AuthCommand returns the auth subcommand group.
func AuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the login session",
		Subcommands: []*cli.Command{
			{
				Name:      "login",
				Usage:     "Log in and persist the session",
				ArgsUsage: "USERNAME",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Password (prompted when omitted)",
						EnvVars: []string{"GUARDWEB_PASSWORD"},
					},
				},
				Action: authLogin,
			},
			{
				Name:   "logout",
				Usage:  "Log out and clear the persisted session",
				Action: authLogout,
			},
			{
				Name:   "status",
				Usage:  "Show whether the persisted session is still valid",
				Action: authStatus,
			},
			{
				Name:   "whoami",
				Usage:  "Show the logged-in user",
				Action: authWhoami,
			},
			{
				Name:      "register",
				Usage:     "Register a new account",
				ArgsUsage: "USERNAME",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Password (prompted when omitted)",
						EnvVars: []string{"GUARDWEB_PASSWORD"},
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "Account email",
					},
				},
				Action: authRegister,
			},
			{
				Name:      "passwd",
				Usage:     "Change the logged-in user's password",
				ArgsUsage: "USERNAME",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "old-password",
						Usage: "Current password (prompted when omitted)",
					},
					&cli.StringFlag{
						Name:  "new-password",
						Usage: "New password (prompted when omitted)",
					},
				},
				Action: authPasswd,
			},
			{
				Name:  "reset",
				Usage: "Password reset flow",
				Subcommands: []*cli.Command{
					{
						Name:      "request",
						Usage:     "Request a password reset token",
						ArgsUsage: "USERNAME",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "email",
								Usage: "Account email",
							},
						},
						Action: authResetRequest,
					},
					{
						Name:      "verify",
						Usage:     "Check whether a reset token is still valid",
						ArgsUsage: "TOKEN",
						Action:    authResetVerify,
					},
					{
						Name:      "confirm",
						Usage:     "Set a new password with a reset token",
						ArgsUsage: "TOKEN",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "new-password",
								Usage: "New password (prompted when omitted)",
							},
						},
						Action: authResetConfirm,
					},
				},
			},
			{
				Name:      "avatar",
				Usage:     "Update the logged-in user's avatar",
				ArgsUsage: "FILE|STYLE",
				Action:    authAvatar,
			},
		},
	}
}

func authLogin(c *cli.Context) error {
	username := c.Args().First()
	if username == "" {
		return fmt.Errorf("username required")
	}
	password, err := promptSecret(c.String("password"), "Password: ")
	if err != nil {
		return err
	}

	sess, cfg, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := requestContext(c, cfg)
	defer cancel()

	res := sess.Login(ctx, username, password)
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	user, _ := sess.User()
	fmt.Printf("Logged in as %s.\n", user.Username)
	return nil
}

func authLogout(c *cli.Context) error {
	sess, cfg, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := requestContext(c, cfg)
	defer cancel()

	sess.Logout(ctx)
	fmt.Println("Logged out.")
	return nil
}

func authStatus(c *cli.Context) error {
	sess, cfg, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.Close()

	if !sess.IsAuthenticated() {
		fmt.Println("Not logged in.")
		return nil
	}

	ctx, cancel := requestContext(c, cfg)
	defer cancel()

	if !sess.ValidateToken(ctx) {
		fmt.Println("Session expired; log in again.")
		return nil
	}
	user, _ := sess.User()
	fmt.Printf("Logged in as %s; session valid.\n", user.Username)
	return nil
}

func authWhoami(c *cli.Context) error {
	sess, cfg, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.Close()

	user, ok := sess.User()
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}

	if cfg.Output == string(output.FormatJSON) {
		return output.JSON(os.Stdout, user)
	}
	fmt.Printf("Username: %s\n", user.Username)
	if user.Email != "" {
		fmt.Printf("Email:    %s\n", user.Email)
	}
	if user.Role != "" {
		fmt.Printf("Role:     %s\n", user.Role)
	}
	return nil
}

func authRegister(c *cli.Context) error {
	username := c.Args().First()
	if username == "" {
		return fmt.Errorf("username required")
	}
	password, err := promptSecret(c.String("password"), "Password: ")
	if err != nil {
		return err
	}

	sess, cfg, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := requestContext(c, cfg)
	defer cancel()

	res := sess.Register(ctx, username, password, c.String("email"), "")
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	fmt.Println(res.Message)
	return nil
}

func authPasswd(c *cli.Context) error {
	username := c.Args().First()
	if username == "" {
		return fmt.Errorf("username required")
	}
	oldPassword, err := promptSecret(c.String("old-password"), "Current password: ")
	if err != nil {
		return err
	}
	newPassword, err := promptSecret(c.String("new-password"), "New password: ")
	if err != nil {
		return err
	}

	sess, cfg, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := requestContext(c, cfg)
	defer cancel()

	res := sess.ChangePassword(ctx, username, oldPassword, newPassword)
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	fmt.Println("Password changed.")
	return nil
}

func authResetRequest(c *cli.Context) error {
	username := c.Args().First()
	if username == "" {
		return fmt.Errorf("username required")
	}

	sess, cfg, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := requestContext(c, cfg)
	defer cancel()

	res := sess.ForgotPassword(ctx, username, c.String("email"))
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	fmt.Println(res.Message)
	if res.ResetToken != "" {
		fmt.Printf("Reset token: %s\n", res.ResetToken)
	}
	return nil
}

func authResetVerify(c *cli.Context) error {
	token := c.Args().First()
	if token == "" {
		return fmt.Errorf("token required")
	}

	sess, cfg, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := requestContext(c, cfg)
	defer cancel()

	res := sess.VerifyResetToken(ctx, token)
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	fmt.Println("Token is valid.")
	return nil
}

func authResetConfirm(c *cli.Context) error {
	token := c.Args().First()
	if token == "" {
		return fmt.Errorf("token required")
	}
	newPassword, err := promptSecret(c.String("new-password"), "New password: ")
	if err != nil {
		return err
	}

	sess, cfg, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx, cancel := requestContext(c, cfg)
	defer cancel()

	res := sess.ResetPassword(ctx, token, newPassword)
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	fmt.Println("Password reset.")
	return nil
}

func authAvatar(c *cli.Context) error {
	arg := c.Args().First()
	if arg == "" {
		return fmt.Errorf("avatar file or style required")
	}

	sess, cfg, err := newSession(c)
	if err != nil {
		return err
	}
	defer sess.Close()

	upload := avatarUpload(arg)

	ctx, cancel := requestContext(c, cfg)
	defer cancel()

	res := sess.UpdateAvatar(ctx, upload)
	if !res.Success {
		return fmt.Errorf("%s", res.Message)
	}
	fmt.Println("Avatar updated.")
	return nil
}

// avatarUpload treats arg as a file when it exists on disk, otherwise as a
// named avatar style passed through as a form field.
func avatarUpload(arg string) guardweb.AvatarUpload {
	if content, err := os.ReadFile(arg); err == nil {
		return guardweb.AvatarUpload{
			Filename: filepath.Base(arg),
			Content:  content,
		}
	}
	return guardweb.AvatarUpload{
		Fields: map[string]string{"avatar": arg},
	}
}

// promptSecret returns value when set, otherwise reads one line from stdin.
func promptSecret(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
