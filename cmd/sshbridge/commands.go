package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(
		lsCmd, getCmd, putCmd, statCmd, dfCmd,
		mkdirCmd, rmCmd, rmdirCmd, mvCmd, lnCmd,
		chmodCmd, chownCmd, realpathCmd, readlinkCmd, touchCmd,
	)
}

var lsCmd = &cobra.Command{
	Use:   "ls <path>",
	Short: "List a remote directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()

		entries, err := cl.ReadDir(context.Background(), args[0])
		if err != nil {
			return err
		}
		for _, ent := range entries {
			fmt.Println(ent.Longname)
		}
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <remote> <local>",
	Short: "Download a remote file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()

		out, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer out.Close()

		n, err := cl.ReadFile(context.Background(), args[0], out, progressPrinter())
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "downloaded %d bytes\n", n)
		return nil
	},
}

var putCmd = &cobra.Command{
	Use:   "put <local> <remote>",
	Short: "Upload a local file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()

		in, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		fi, err := in.Stat()
		if err != nil {
			return err
		}

		n, err := cl.WriteFile(context.Background(), args[1], in, fi.Size(), fi.Mode().Perm(), progressPrinter())
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "uploaded %d bytes\n", n)
		return nil
	},
}

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Show attributes of a remote object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()

		attrs, err := cl.Stat(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("size: %d\nmode: %s\nuid: %d\ngid: %d\nmtime: %s\n",
			attrs.Size, attrs.Mode, attrs.UID, attrs.GID, attrs.Mtime)
		return nil
	},
}

var dfCmd = &cobra.Command{
	Use:   "df <path>",
	Short: "Show filesystem capacity and usage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()

		st, err := cl.StatVFS(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("total: %d\nfree: %d\n", st.TotalSpace(), st.FreeSpace())
		return nil
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a remote directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()
		return cl.Mkdir(context.Background(), args[0], 0o755)
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Remove a remote file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()
		return cl.Remove(context.Background(), args[0])
	},
}

var rmdirCmd = &cobra.Command{
	Use:   "rmdir <path>",
	Short: "Remove an empty remote directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()
		return cl.RemoveDirectory(context.Background(), args[0])
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv <old> <new>",
	Short: "Rename a remote object, replacing any existing target",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()
		return cl.Rename(context.Background(), args[0], args[1])
	},
}

var lnCmd = &cobra.Command{
	Use:   "ln <target> <link>",
	Short: "Create a remote symlink",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()
		return cl.Symlink(context.Background(), args[0], args[1])
	},
}

var chmodCmd = &cobra.Command{
	Use:   "chmod <octal-mode> <path>",
	Short: "Change permissions of a remote object",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := strconv.ParseUint(args[0], 8, 32)
		if err != nil {
			return fmt.Errorf("bad mode %q: %w", args[0], err)
		}

		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()
		return cl.Chmod(context.Background(), args[1], os.FileMode(mode))
	},
}

var chownCmd = &cobra.Command{
	Use:   "chown <uid> <gid> <path>",
	Short: "Change owner and group of a remote object",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		uid, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		gid, err := strconv.Atoi(args[1])
		if err != nil {
			return err
		}

		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()
		return cl.Chown(context.Background(), args[2], uid, gid)
	},
}

var realpathCmd = &cobra.Command{
	Use:   "realpath <path>",
	Short: "Canonicalize a remote path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()

		resolved, err := cl.RealPath(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(resolved)
		return nil
	},
}

var readlinkCmd = &cobra.Command{
	Use:   "readlink <path>",
	Short: "Show the target of a remote symlink",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()

		target, err := cl.ReadLink(context.Background(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(target)
		return nil
	},
}

var touchCmd = &cobra.Command{
	Use:   "touch <path>",
	Short: "Create an empty remote file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cl, err := connect()
		if err != nil {
			return err
		}
		defer cl.Close()
		return cl.Create(context.Background(), args[0], 0o644)
	},
}
