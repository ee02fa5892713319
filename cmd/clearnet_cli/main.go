package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/clearnetwork/clearnet/core"
)

const flagListenAddr = "listen_addr"

func init() {
	rootCmd.PersistentFlags().String(flagListenAddr, "localhost:8080", "Listen Address")
}

var rootCmd = &cobra.Command{
	Use:   "clearnet_cli",
	Short: "clearnet node cli utilities implementation",
}

func main() {
	rootCmd.AddCommand(
		depositCommand(),
		requestWithdrawalCommand(),
		challengeCommand(),
		withdrawCommand(),
		getPendingRequestCommand(),
		getVaultBalanceCommand(),
		setNodeStatusCommand(),
		submitStateCommand(),
		signStateCommand(),
		getLatestStateCommand(),
		getUsernameCommand(),
		getPubKeyCommand(),
		saveOffsetCommand(),
		getOffsetCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Failed to execute root command: %v", err)
	}
}

func rawGetRequest(url string) (*Response, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()
	responseBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body %w", err)
	}

	var response Response
	if err = json.Unmarshal(responseBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %v", err)
	}
	return &response, nil
}

func rawPostRequest(url string, contentType string, data []byte) (*Response, error) {
	resp, err := http.Post(url,
		contentType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()
	responseBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body %w", err)
	}

	var response Response
	if err = json.Unmarshal(responseBody, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %v", err)
	}
	return &response, nil
}

func readStateFile(path string) (*core.State, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	var state core.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return &state, nil
}

func depositCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deposit [user] [asset] [amount]",
		Args:  cobra.ExactArgs(3),
		Short: "credits the given amount of the asset to the pooled vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			amount, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("failed to parse amount: %w", err)
			}

			data, err := json.Marshal(map[string]interface{}{
				"user":   args[0],
				"asset":  args[1],
				"amount": amount,
			})
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}

			resp, err := rawPostRequest(fmt.Sprintf("http://%s/deposit", listenAddr),
				"application/json", data)
			if err != nil {
				return fmt.Errorf("failed to deposit: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to deposit: %s", resp.ErrorMessage)
			}
			fmt.Println("OK")
			return nil
		},
	}
}

func requestWithdrawalCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "request_withdrawal [caller] [amount] [state.json]",
		Args:  cobra.ExactArgs(3),
		Short: "opens a withdrawal claim backed by the attested state from the given file",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			amount, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("failed to parse amount: %w", err)
			}
			state, err := readStateFile(args[2])
			if err != nil {
				return err
			}

			data, err := json.Marshal(map[string]interface{}{
				"caller": args[0],
				"amount": amount,
				"state":  state,
			})
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}

			resp, err := rawPostRequest(fmt.Sprintf("http://%s/requestWithdrawal", listenAddr),
				"application/json", data)
			if err != nil {
				return fmt.Errorf("failed to request withdrawal: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to request withdrawal: %s", resp.ErrorMessage)
			}
			fmt.Println("OK")
			return nil
		},
	}
}

func challengeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "challenge [caller] [candidate_state.json]",
		Args:  cobra.ExactArgs(2),
		Short: "rejects a pending claim with a strictly newer attested state",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			candidate, err := readStateFile(args[1])
			if err != nil {
				return err
			}

			data, err := json.Marshal(map[string]interface{}{
				"caller":    args[0],
				"candidate": candidate,
			})
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}

			resp, err := rawPostRequest(fmt.Sprintf("http://%s/challenge", listenAddr),
				"application/json", data)
			if err != nil {
				return fmt.Errorf("failed to challenge: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to challenge: %s", resp.ErrorMessage)
			}
			fmt.Println("OK")
			return nil
		},
	}
}

func withdrawCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw [caller] [finalize_state.json]",
		Args:  cobra.ExactArgs(2),
		Short: "finalizes an expired undisputed claim and pays it out",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			finalize, err := readStateFile(args[1])
			if err != nil {
				return err
			}

			data, err := json.Marshal(map[string]interface{}{
				"caller":   args[0],
				"finalize": finalize,
			})
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}

			resp, err := rawPostRequest(fmt.Sprintf("http://%s/withdraw", listenAddr),
				"application/json", data)
			if err != nil {
				return fmt.Errorf("failed to withdraw: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to withdraw: %s", resp.ErrorMessage)
			}
			fmt.Println("OK")
			return nil
		},
	}
}

func getPendingRequestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_pending_request [wallet]",
		Args:  cobra.ExactArgs(1),
		Short: "returns the wallet's pending withdrawal claim",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			resp, err := http.Get(fmt.Sprintf("http://%s/getPendingRequest?wallet=%s", listenAddr, args[0]))
			if err != nil {
				return fmt.Errorf("failed to get pending request: %w", err)
			}
			defer resp.Body.Close()
			responseBody, err := ioutil.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read body: %w", err)
			}

			var response PendingRequestResponse
			if err = json.Unmarshal(responseBody, &response); err != nil {
				return fmt.Errorf("failed to unmarshal response: %v", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get pending request: %s", response.ErrorMessage)
			}

			request := response.Result
			fmt.Printf("Wallet: %s\n", request.Wallet)
			fmt.Printf("Asset: %s\n", request.Asset)
			fmt.Printf("Amount: %d\n", request.Amount)
			fmt.Printf("Height: %d\n", request.Height)
			fmt.Printf("Expiration: %d\n", request.Expiration)
			return nil
		},
	}
}

func getVaultBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_vault_balance [asset]",
		Args:  cobra.ExactArgs(1),
		Short: "returns the pooled vault balance for the asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			resp, err := http.Get(fmt.Sprintf("http://%s/getVaultBalance?asset=%s", listenAddr, args[0]))
			if err != nil {
				return fmt.Errorf("failed to get vault balance: %w", err)
			}
			defer resp.Body.Close()
			responseBody, err := ioutil.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read body: %w", err)
			}

			var response BalanceResponse
			if err = json.Unmarshal(responseBody, &response); err != nil {
				return fmt.Errorf("failed to unmarshal response: %v", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get vault balance: %s", response.ErrorMessage)
			}
			fmt.Println(response.Result)
			return nil
		},
	}
}

func setNodeStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set_node_status [caller] [authority] [true|false]",
		Args:  cobra.ExactArgs(3),
		Short: "activates or deactivates a participant node (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			isActive, err := strconv.ParseBool(args[2])
			if err != nil {
				return fmt.Errorf("failed to parse status: %w", err)
			}

			data, err := json.Marshal(map[string]interface{}{
				"caller":    args[0],
				"authority": args[1],
				"is_active": isActive,
			})
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}

			resp, err := rawPostRequest(fmt.Sprintf("http://%s/setNodeStatus", listenAddr),
				"application/json", data)
			if err != nil {
				return fmt.Errorf("failed to set node status: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to set node status: %s", resp.ErrorMessage)
			}
			fmt.Println("OK")
			return nil
		},
	}
}

func submitStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "submit_state [state.json]",
		Args:  cobra.ExactArgs(1),
		Short: "records an attested state in the node's local view",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			state, err := readStateFile(args[0])
			if err != nil {
				return err
			}

			data, err := json.Marshal(state)
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}

			resp, err := rawPostRequest(fmt.Sprintf("http://%s/submitState", listenAddr),
				"application/json", data)
			if err != nil {
				return fmt.Errorf("failed to submit state: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to submit state: %s", resp.ErrorMessage)
			}
			fmt.Println("OK")
			return nil
		},
	}
}

func signStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sign_state [state.json]",
		Args:  cobra.ExactArgs(1),
		Short: "co-signs the state's digest with the node's key and prints the signed state",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			state, err := readStateFile(args[0])
			if err != nil {
				return err
			}

			data, err := json.Marshal(state)
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}

			resp, err := http.Post(fmt.Sprintf("http://%s/signState", listenAddr),
				"application/json", bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("failed to sign state: %w", err)
			}
			defer resp.Body.Close()
			responseBody, err := ioutil.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read body: %w", err)
			}

			var response StateResponse
			if err = json.Unmarshal(responseBody, &response); err != nil {
				return fmt.Errorf("failed to unmarshal response: %v", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to sign state: %s", response.ErrorMessage)
			}

			signedBz, err := json.Marshal(response.Result)
			if err != nil {
				return fmt.Errorf("failed to marshal signed state: %w", err)
			}
			fmt.Println(string(signedBz))
			return nil
		},
	}
}

func getLatestStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_latest_state [wallet]",
		Args:  cobra.ExactArgs(1),
		Short: "returns the freshest attested state the node has seen for the wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			resp, err := http.Get(fmt.Sprintf("http://%s/getLatestState?wallet=%s", listenAddr, args[0]))
			if err != nil {
				return fmt.Errorf("failed to get latest state: %w", err)
			}
			defer resp.Body.Close()
			responseBody, err := ioutil.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("failed to read body: %w", err)
			}

			var response StateResponse
			if err = json.Unmarshal(responseBody, &response); err != nil {
				return fmt.Errorf("failed to unmarshal response: %v", err)
			}
			if response.ErrorMessage != "" {
				return fmt.Errorf("failed to get latest state: %s", response.ErrorMessage)
			}

			stateBz, err := json.Marshal(response.Result)
			if err != nil {
				return fmt.Errorf("failed to marshal state: %w", err)
			}
			fmt.Println(string(stateBz))
			return nil
		},
	}
}

func getUsernameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_username",
		Short: "returns node's username",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			resp, err := rawGetRequest(fmt.Sprintf("http://%s/getUsername", listenAddr))
			if err != nil {
				return fmt.Errorf("failed to get node's username: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to get node's username: %v", resp.ErrorMessage)
			}
			fmt.Println(resp.Result.(string))
			return nil
		},
	}
}

func getPubKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_pubkey",
		Short: "returns node's pubkey",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			resp, err := rawGetRequest(fmt.Sprintf("http://%s/getPubKey", listenAddr))
			if err != nil {
				return fmt.Errorf("failed to get node's pubkey: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to get node's pubkey: %v", resp.ErrorMessage)
			}
			fmt.Println(resp.Result.(string))
			return nil
		},
	}
}

func saveOffsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save_offset [offset]",
		Args:  cobra.ExactArgs(1),
		Short: "moves the node's stream cursor to the given offset",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}
			offset, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("failed to parse offset: %w", err)
			}

			data, err := json.Marshal(map[string]uint64{"offset": offset})
			if err != nil {
				return fmt.Errorf("failed to marshal request: %w", err)
			}

			resp, err := rawPostRequest(fmt.Sprintf("http://%s/saveOffset", listenAddr),
				"application/json", data)
			if err != nil {
				return fmt.Errorf("failed to save offset: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to save offset: %v", resp.ErrorMessage)
			}
			fmt.Println("OK")
			return nil
		},
	}
}

func getOffsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_offset",
		Short: "returns node's stream cursor offset",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := cmd.Flags().GetString(flagListenAddr)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %v", err)
			}

			resp, err := rawGetRequest(fmt.Sprintf("http://%s/getOffset", listenAddr))
			if err != nil {
				return fmt.Errorf("failed to get offset: %w", err)
			}
			if resp.ErrorMessage != "" {
				return fmt.Errorf("failed to get offset: %v", resp.ErrorMessage)
			}
			fmt.Println(uint64(resp.Result.(float64)))
			return nil
		},
	}
}
