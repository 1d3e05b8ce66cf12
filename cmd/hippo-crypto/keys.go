package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/hippo-protocol/hippo-protocol/crypto"
	"github.com/hippo-protocol/hippo-protocol/did"
	"github.com/hippo-protocol/hippo-protocol/keystore"
	"github.com/hippo-protocol/hippo-protocol/sdk"
)

var keystoreFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "keystore-dir",
		Usage:   "directory holding encrypted key files",
		Value:   defaultKeystoreDir(),
		EnvVars: []string{"HIPPO_KEYSTORE_DIR"},
	},
	&cli.StringFlag{
		Name:    "passphrase",
		Usage:   "keystore passphrase",
		EnvVars: []string{"HIPPO_KEYSTORE_PASSPHRASE"},
	},
}

// private key may come from a flag, or from the keystore
var privkeyFlags = append([]cli.Flag{
	&cli.StringFlag{
		Name:    "privkey",
		Usage:   "private key, hex",
		EnvVars: []string{"HIPPO_PRIVKEY"},
	},
	&cli.StringFlag{
		Name:  "key-id",
		Usage: "load the private key from the keystore instead",
	},
}, keystoreFlags...)

func defaultKeystoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hippo/keys"
	}
	return filepath.Join(home, ".hippo", "keys")
}

func openKeystore(cctx *cli.Context) (*keystore.Keystore, error) {
	pass := cctx.String("passphrase")
	if pass == "" {
		return nil, fmt.Errorf("keystore passphrase required (--passphrase or HIPPO_KEYSTORE_PASSPHRASE)")
	}
	return keystore.New(cctx.String("keystore-dir"), []byte(pass), nil)
}

func loadPrivateKey(cctx *cli.Context) (*crypto.PrivateKeyK256, error) {
	if id := cctx.String("key-id"); id != "" {
		ks, err := openKeystore(cctx)
		if err != nil {
			return nil, err
		}
		return ks.Get(id)
	}
	if s := cctx.String("privkey"); s != "" {
		return crypto.ParsePrivateHexK256(s)
	}
	return nil, fmt.Errorf("need a private key (--privkey or --key-id)")
}

var cmdKey = &cli.Command{
	Name:  "key",
	Usage: "sub-commands for K-256 key pairs",
	Subcommands: []*cli.Command{
		&cli.Command{
			Name:   "generate",
			Usage:  "outputs a new key pair as JSON",
			Action: runKeyGenerate,
		},
		&cli.Command{
			Name:      "inspect",
			Usage:     "parses and outputs metadata about a public or private key",
			ArgsUsage: `<key>`,
			Action:    runKeyInspect,
		},
	},
}

func runKeyGenerate(cctx *cli.Context) error {
	kp, err := sdk.CreateKeyPair()
	if err != nil {
		return err
	}
	return printJSON(cctx, kp)
}

type keyInfo struct {
	Type      string `json:"type"`
	Encoding  string `json:"encoding"`
	Pubkey    string `json:"pubkey"`
	DID       string `json:"did"`
	DIDKey    string `json:"didKey"`
	Multibase string `json:"multibase"`
}

func describe(pub *crypto.PublicKeyK256, encoding string) keyInfo {
	return keyInfo{
		Type:      "K-256 / secp256k1 public key",
		Encoding:  encoding,
		Pubkey:    pub.Hex(),
		DID:       did.FromPublicKey(pub).String(),
		DIDKey:    pub.DIDKey(),
		Multibase: pub.Multibase(),
	}
}

func runKeyInspect(cctx *cli.Context) error {
	s := cctx.Args().First()
	if s == "" {
		return fmt.Errorf("need to provide key as an argument")
	}

	if priv, err := crypto.ParsePrivateHexK256(s); err == nil {
		defer priv.Zero()
		info := describe(priv.PublicKey(), "hex")
		info.Type = "K-256 / secp256k1 private key"
		return printJSON(cctx, info)
	}
	if priv, err := crypto.ParsePrivateMultibase(s); err == nil {
		defer priv.Zero()
		info := describe(priv.PublicKey(), "multibase")
		info.Type = "K-256 / secp256k1 private key"
		return printJSON(cctx, info)
	}
	if id, err := did.ParseID(s); err == nil {
		pub, err := id.PublicKey()
		if err != nil {
			return err
		}
		return printJSON(cctx, describe(pub, "did:hp"))
	}
	pub, err := crypto.ParsePublicAny(s)
	if err != nil {
		return fmt.Errorf("unknown key encoding or type: %w", err)
	}
	return printJSON(cctx, describe(pub, "public"))
}

var cmdDID = &cli.Command{
	Name:  "did",
	Usage: "sub-commands for did:hp identifiers",
	Subcommands: []*cli.Command{
		&cli.Command{
			Name:      "encode",
			Usage:     "public key to identifier",
			ArgsUsage: `<pubkey>`,
			Action: func(cctx *cli.Context) error {
				if cctx.Args().Len() != 1 {
					return fmt.Errorf("expected a public key argument")
				}
				return printLine(cctx, sdk.KeyToDID(cctx.Args().First()).ID)
			},
		},
		&cli.Command{
			Name:      "decode",
			Usage:     "identifier to public key",
			ArgsUsage: `<did>`,
			Action: func(cctx *cli.Context) error {
				pub, err := sdk.DIDToKey(sdk.DID{ID: cctx.Args().First()})
				if err != nil {
					return err
				}
				return printLine(cctx, pub)
			},
		},
		&cli.Command{
			Name:      "resolve",
			Usage:     "outputs the DID document for a did:hp or did:key identifier",
			ArgsUsage: `<did>`,
			Action: func(cctx *cli.Context) error {
				doc, err := did.DefaultResolver().GetDocument(cctx.Context, cctx.Args().First())
				if err != nil {
					return err
				}
				return printJSON(cctx, doc)
			},
		},
	},
}

var cmdKeystore = &cli.Command{
	Name:  "keystore",
	Usage: "sub-commands for the passphrase-protected key store",
	Subcommands: []*cli.Command{
		&cli.Command{
			Name:      "put",
			Usage:     "stores a private key (generated if --privkey is not given)",
			ArgsUsage: `<id>`,
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "privkey",
					Usage: "private key to import, hex",
				},
			}, keystoreFlags...),
			Action: runKeystorePut,
		},
		&cli.Command{
			Name:      "get",
			Usage:     "outputs a stored key pair as JSON",
			ArgsUsage: `<id>`,
			Flags:     keystoreFlags,
			Action:    runKeystoreGet,
		},
		&cli.Command{
			Name:   "list",
			Usage:  "outputs stored key IDs",
			Flags:  keystoreFlags,
			Action: runKeystoreList,
		},
		&cli.Command{
			Name:      "delete",
			Usage:     "removes a stored key",
			ArgsUsage: `<id>`,
			Flags:     keystoreFlags,
			Action:    runKeystoreDelete,
		},
	},
}

func runKeystorePut(cctx *cli.Context) error {
	id := cctx.Args().First()
	ks, err := openKeystore(cctx)
	if err != nil {
		return err
	}
	var priv *crypto.PrivateKeyK256
	if s := cctx.String("privkey"); s != "" {
		priv, err = crypto.ParsePrivateHexK256(s)
	} else {
		priv, err = crypto.GeneratePrivateKeyK256()
	}
	if err != nil {
		return err
	}
	defer priv.Zero()
	if err := ks.Put(id, priv); err != nil {
		return err
	}
	return printLine(cctx, priv.PublicKey().Hex())
}

func runKeystoreGet(cctx *cli.Context) error {
	ks, err := openKeystore(cctx)
	if err != nil {
		return err
	}
	priv, err := ks.Get(cctx.Args().First())
	if err != nil {
		return err
	}
	defer priv.Zero()
	return printJSON(cctx, sdk.KeyPair{Pubkey: priv.PublicKey().Hex(), Privkey: priv.Hex()})
}

func runKeystoreList(cctx *cli.Context) error {
	ks, err := openKeystore(cctx)
	if err != nil {
		return err
	}
	ids, err := ks.List()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := printLine(cctx, id); err != nil {
			return err
		}
	}
	return nil
}

func runKeystoreDelete(cctx *cli.Context) error {
	ks, err := openKeystore(cctx)
	if err != nil {
		return err
	}
	return ks.Delete(cctx.Args().First())
}
