package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "xacto-cli",
	Short: "Minimal wire-protocol client for exercising a running Xacto server",
}

var putCmd = &cobra.Command{
	Use:   "put <key> <value>",
	Short: "PUT a key/value pair, then COMMIT",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		c, err := Dial(addr)
		if err != nil {
			return err
		}
		defer c.Close()

		status, err := c.Put([]byte(args[0]), []byte(args[1]))
		if err != nil {
			return err
		}
		fmt.Printf("PUT status: %s\n", status)
		if status != "PENDING" {
			return nil
		}

		status, err = c.Commit()
		if err != nil {
			return err
		}
		fmt.Printf("COMMIT status: %s\n", status)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "GET a key, then COMMIT the read-only transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		c, err := Dial(addr)
		if err != nil {
			return err
		}
		defer c.Close()

		value, status, err := c.Get([]byte(args[0]))
		if err != nil {
			return err
		}
		if value == nil {
			fmt.Println("(null)")
		} else {
			fmt.Printf("%s\n", value)
		}
		fmt.Printf("GET status: %s\n", status)
		if status != "PENDING" {
			return nil
		}

		status, err = c.Commit()
		if err != nil {
			return err
		}
		fmt.Printf("COMMIT status: %s\n", status)
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{putCmd, getCmd} {
		cmd.Flags().String("addr", "127.0.0.1:6060", "Xacto server address")
	}
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(getCmd)
}
