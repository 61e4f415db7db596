// Command dump prints the contribution ledger of an application hosted by a
// deployed Escrow contract: the pooled balance, the contributor list and the
// per-contributor balances of every class.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/openrights/escrow-contract/rpc/escrow"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	contractHash := flag.String("contract", "", "Script hash of the Escrow contract (LE hex)")
	dapp := flag.String("dapp", "", "Application name to dump")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *contractHash == "":
		log.Fatal("missing Escrow contract hash")
	case *dapp == "":
		log.Fatal("missing application name")
	}

	hash, err := util.Uint160DecodeStringLE(*contractHash)
	if err != nil {
		log.Fatal(fmt.Errorf("decode contract hash: %w", err))
	}

	err = dump(*neoRPCEndpoint, hash, *dapp)
	if err != nil {
		log.Fatal(err)
	}
}

func dump(neoRPCEndpoint string, hash util.Uint160, dapp string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	c, err := rpcclient.New(ctx, neoRPCEndpoint, rpcclient.Options{})
	if err != nil {
		return fmt.Errorf("create RPC client: %w", err)
	}

	defer c.Close()

	reader := escrow.NewReader(invoker.New(c, nil), hash)

	symbol, err := reader.Symbol()
	if err != nil {
		return fmt.Errorf("read escrow symbol: %w", err)
	}

	entry, err := reader.Entry(dapp)
	if err != nil {
		return fmt.Errorf("read ledger entry of '%s': %w", dapp, err)
	}

	fmt.Printf("application: %s (id %s)\n", entry.Origin, escrow.DappID(dapp))
	fmt.Printf("pooled balance: %s %s\n", entry.Balance.Value, symbol)
	fmt.Printf("contributors: %d\n", len(entry.Contributors))

	for _, contributor := range entry.Contributors {
		fmt.Printf("  %s\n", contributor.StringLE())

		for _, class := range []string{"ram", "net", "cpu"} {
			balance, err := reader.BalanceOf(dapp, contributor, class)
			if err != nil {
				return fmt.Errorf("read %s balance of %s: %w", class, contributor.StringLE(), err)
			}

			fmt.Printf("    %s: %s %s\n", class, balance, symbol)
		}
	}

	return nil
}
