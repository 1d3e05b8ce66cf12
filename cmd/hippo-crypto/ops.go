package main

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/hippo-protocol/hippo-protocol/crypto"
	"github.com/hippo-protocol/hippo-protocol/crypto/symmetric"
	"github.com/hippo-protocol/hippo-protocol/sdk"
)

var (
	errSignatureInvalid   = errors.New("signature invalid")
	errCommitmentMismatch = errors.New("commitment does not open to the claimed value")
)

var dataFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "data",
		Aliases: []string{"d"},
		Usage:   "input text; read from stdin when not given",
	},
}

var encodingFlag = &cli.StringFlag{
	Name:    "encoding",
	Aliases: []string{"e"},
	Usage:   "plaintext encoding: UTF8, HEX or BASE64",
	Value:   "UTF8",
}

func readData(cctx *cli.Context) (string, error) {
	if cctx.IsSet("data") {
		return cctx.String("data"), nil
	}
	b, err := io.ReadAll(cctx.App.Reader)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readEncoding(cctx *cli.Context) (sdk.EncodingType, error) {
	var enc sdk.EncodingType
	err := enc.UnmarshalText([]byte(cctx.String("encoding")))
	return enc, err
}

// reads a JSON record from a file argument, or stdin for "-" or no argument
func readRecord(cctx *cli.Context, v any) error {
	var r io.Reader = cctx.App.Reader
	if p := cctx.Args().First(); p != "" && p != "-" {
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", crypto.ErrMalformedInput, err)
	}
	return nil
}

var cmdEncrypt = &cli.Command{
	Name:  "encrypt",
	Usage: "encrypts to a public key; outputs the envelope as JSON",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:     "pubkey",
			Usage:    "recipient public key, hex",
			Required: true,
		},
		encodingFlag,
	}, dataFlags...),
	Action: func(cctx *cli.Context) error {
		data, err := readData(cctx)
		if err != nil {
			return err
		}
		enc, err := readEncoding(cctx)
		if err != nil {
			return err
		}
		out, err := sdk.Encrypt(data, cctx.String("pubkey"), enc)
		if err != nil {
			return err
		}
		return printJSON(cctx, out)
	},
}

var cmdDecrypt = &cli.Command{
	Name:      "decrypt",
	Usage:     "decrypts an envelope produced by 'encrypt'",
	ArgsUsage: `[<envelope.json>]`,
	Flags:     append([]cli.Flag{encodingFlag}, privkeyFlags...),
	Action: func(cctx *cli.Context) error {
		var env sdk.EncryptedData
		if err := readRecord(cctx, &env); err != nil {
			return err
		}
		enc, err := readEncoding(cctx)
		if err != nil {
			return err
		}
		priv, err := loadPrivateKey(cctx)
		if err != nil {
			return err
		}
		defer priv.Zero()
		out, err := sdk.Decrypt(&env, priv.Hex(), enc)
		if err != nil {
			return err
		}
		return printLine(cctx, out)
	},
}

var aesKeyFlag = &cli.StringFlag{
	Name:     "key",
	Usage:    "256-bit key, 64 hex characters",
	Required: true,
	EnvVars:  []string{"HIPPO_AES_KEY"},
}

var cmdAES = &cli.Command{
	Name:  "aes",
	Usage: "sub-commands for AES-256-GCM with a raw key",
	Subcommands: []*cli.Command{
		&cli.Command{
			Name:  "keygen",
			Usage: "outputs a random 256-bit key",
			Action: func(cctx *cli.Context) error {
				key, err := symmetric.GenerateKey()
				if err != nil {
					return err
				}
				defer clear(key)
				return printLine(cctx, hex.EncodeToString(key))
			},
		},
		&cli.Command{
			Name:  "encrypt",
			Usage: "outputs the envelope as JSON",
			Flags: append([]cli.Flag{aesKeyFlag, encodingFlag}, dataFlags...),
			Action: func(cctx *cli.Context) error {
				data, err := readData(cctx)
				if err != nil {
					return err
				}
				enc, err := readEncoding(cctx)
				if err != nil {
					return err
				}
				out, err := sdk.EncryptAES(data, cctx.String("key"), enc)
				if err != nil {
					return err
				}
				return printJSON(cctx, out)
			},
		},
		&cli.Command{
			Name:      "decrypt",
			ArgsUsage: `[<envelope.json>]`,
			Flags:     []cli.Flag{aesKeyFlag, encodingFlag},
			Action: func(cctx *cli.Context) error {
				var env sdk.AesEncryptedData
				if err := readRecord(cctx, &env); err != nil {
					return err
				}
				enc, err := readEncoding(cctx)
				if err != nil {
					return err
				}
				out, err := sdk.DecryptAES(&env, cctx.String("key"), enc)
				if err != nil {
					return err
				}
				return printLine(cctx, out)
			},
		},
	},
}

var cmdSign = &cli.Command{
	Name:  "sign",
	Usage: "outputs a hex DER signature over the SHA-256 digest of the data",
	Flags: append(append([]cli.Flag{}, dataFlags...), privkeyFlags...),
	Action: func(cctx *cli.Context) error {
		data, err := readData(cctx)
		if err != nil {
			return err
		}
		priv, err := loadPrivateKey(cctx)
		if err != nil {
			return err
		}
		defer priv.Zero()
		sig, err := sdk.Sign(data, priv.Hex())
		if err != nil {
			return err
		}
		return printLine(cctx, sig)
	},
}

var cmdVerify = &cli.Command{
	Name:  "verify",
	Usage: "checks a signature; exits non-zero if it does not verify",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:     "pubkey",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "signature",
			Aliases:  []string{"sig"},
			Required: true,
		},
	}, dataFlags...),
	Action: func(cctx *cli.Context) error {
		data, err := readData(cctx)
		if err != nil {
			return err
		}
		ok, err := sdk.Verify(data, cctx.String("signature"), cctx.String("pubkey"))
		if err != nil {
			return err
		}
		if !ok {
			return errSignatureInvalid
		}
		return printLine(cctx, "valid")
	},
}

var cmdSha256 = &cli.Command{
	Name:  "sha256",
	Usage: "outputs the hex SHA-256 digest of the data",
	Flags: dataFlags,
	Action: func(cctx *cli.Context) error {
		data, err := readData(cctx)
		if err != nil {
			return err
		}
		return printLine(cctx, sdk.Sha256(data))
	},
}

var cmdECDH = &cli.Command{
	Name:  "ecdh",
	Usage: "outputs the hex shared secret between a private key and a public key",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:     "pubkey",
			Required: true,
		},
	}, privkeyFlags...),
	Action: func(cctx *cli.Context) error {
		priv, err := loadPrivateKey(cctx)
		if err != nil {
			return err
		}
		defer priv.Zero()
		secret, err := sdk.ECDH(priv.Hex(), cctx.String("pubkey"))
		if err != nil {
			return err
		}
		return printLine(cctx, secret)
	},
}

var tagFlag = &cli.StringFlag{
	Name:     "tag",
	Usage:    "domain separation tag",
	Required: true,
}

var cmdCommit = &cli.Command{
	Name:  "commit",
	Usage: "creates a Pedersen commitment; outputs commitment and secret blinding factor as JSON",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:     "value",
			Required: true,
		},
		tagFlag,
	},
	Action: func(cctx *cli.Context) error {
		c, err := sdk.PedersenCommit(cctx.Uint64("value"), cctx.String("tag"))
		if err != nil {
			return err
		}
		return printJSON(cctx, c)
	},
}

var cmdReveal = &cli.Command{
	Name:      "reveal",
	Usage:     "checks a commitment record against a claimed value; exits non-zero on mismatch",
	ArgsUsage: `[<commitment.json>]`,
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:     "value",
			Required: true,
		},
		tagFlag,
	},
	Action: func(cctx *cli.Context) error {
		var c sdk.Commitment
		if err := readRecord(cctx, &c); err != nil {
			return err
		}
		ok, err := sdk.PedersenReveal(&c, cctx.Uint64("value"), cctx.String("tag"))
		if err != nil {
			return err
		}
		if !ok {
			return errCommitmentMismatch
		}
		return printLine(cctx, "valid")
	},
}
