package chainmaker

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"aeropart/blockchain/types"
	"aeropart/config"

	"chainmaker.org/chainmaker/pb-go/v2/common"
	sdk "chainmaker.org/chainmaker/sdk-go/v2"
)

// Contract parameter keys shared with the provenance contract.
const (
	paramPartID          = "part_id"
	paramPartNumber      = "part_number"
	paramSerialNumber    = "serial_number"
	paramPartName        = "part_name"
	paramCertificateHash = "certificate_hash"
	paramMaintenanceType = "maintenance_type"
	paramReportHash      = "report_hash"
	paramNotes           = "notes"
	paramToAddress       = "to_address"
	paramReason          = "reason"
	paramStatus          = "status"
	paramAddress         = "address"
)

// Client is the wrapper around the ChainMaker SDK client. Mutating operations
// submit without waiting for the block; Confirm polls the transaction until
// it reaches finality.
type Client struct {
	sdkClient sdk.ChainClient
	cfg       *config.BlockchainConfig
	chainCfg  *ChainMakerConfig
	logger    zerolog.Logger
}

// NewClient initializes the ChainMaker SDK client with the combined configuration
func NewClient(cfg *config.BlockchainConfig, logger zerolog.Logger) (*Client, error) {
	chainCfg, ok := cfg.ChainSpecific.(*ChainMakerConfig)
	if !ok {
		return nil, fmt.Errorf("invalid ChainMaker configuration type")
	}

	logger.Info().Str("chain_id", chainCfg.ChainID).Str("contract", chainCfg.ContractName).
		Msg("initializing ChainMaker SDK client")

	var clientOptions []sdk.ChainClientOption
	clientOptions = append(clientOptions, sdk.WithChainClientOrgId(chainCfg.OrgID))
	clientOptions = append(clientOptions, sdk.WithChainClientChainId(chainCfg.ChainID))
	clientOptions = append(clientOptions, sdk.WithUserKeyFilePath(chainCfg.UserKeyPath))
	clientOptions = append(clientOptions, sdk.WithUserCrtFilePath(chainCfg.UserCertPath))
	clientOptions = append(clientOptions, sdk.WithUserSignKeyFilePath(chainCfg.UserSignKeyPath))
	clientOptions = append(clientOptions, sdk.WithUserSignCrtFilePath(chainCfg.UserSignCertPath))

	if len(chainCfg.Nodes) == 0 {
		return nil, fmt.Errorf("no node configurations provided in config")
	}
	for _, nodeCfg := range chainCfg.Nodes {
		if nodeCfg.UseTLS && len(nodeCfg.CaPaths) == 0 {
			return nil, fmt.Errorf("node %s has TLS enabled but no CaPaths provided", nodeCfg.Address)
		}
		sdkNodeConfig := sdk.NewNodeConfig(
			sdk.WithNodeAddr(nodeCfg.Address),
			sdk.WithNodeConnCnt(nodeCfg.ConnCount),
			sdk.WithNodeUseTLS(nodeCfg.UseTLS),
			sdk.WithNodeCAPaths(nodeCfg.CaPaths),
			sdk.WithNodeTLSHostName(nodeCfg.TLSHostName),
		)
		clientOptions = append(clientOptions, sdk.AddChainClientNodeConfig(sdkNodeConfig))
	}

	client, err := sdk.NewChainClient(clientOptions...)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build ChainMaker SDK client")
		return nil, err
	}

	if err := client.EnableCertHash(); err != nil {
		logger.Warn().Err(err).Msg("failed to enable cert hash")
	}

	logger.Info().Msg("ChainMaker SDK client initialized")

	return &Client{
		sdkClient: *client,
		cfg:       cfg,
		chainCfg:  chainCfg,
		logger:    logger,
	}, nil
}

// Close stops the SDK client
func (c *Client) Close() error {
	c.logger.Info().Msg("closing ChainMaker SDK client")
	if err := c.sdkClient.Stop(); err != nil {
		return fmt.Errorf("failed to stop ChainMaker SDK client: %w", err)
	}
	return nil
}

// VerifyContract probes the chain for the configured contract.
func (c *Client) VerifyContract(ctx context.Context) error {
	contract, err := c.sdkClient.GetContractInfo(c.chainCfg.ContractName)
	if err != nil {
		return fmt.Errorf("contract %q not reachable: %w", c.chainCfg.ContractName, err)
	}
	if contract == nil {
		return fmt.Errorf("contract %q not found on chain %s", c.chainCfg.ContractName, c.chainCfg.ChainID)
	}
	return nil
}

// submit invokes a mutating contract method without waiting for the block.
// The returned handle must be passed to Confirm before any dependent state is
// refreshed.
func (c *Client) submit(op, method string, kvs []*common.KeyValuePair) (*types.PendingTx, error) {
	resp, err := c.sdkClient.InvokeContract(c.chainCfg.ContractName, method, "", kvs, -1, false)
	if err != nil {
		return nil, fmt.Errorf("submit %s: %w", op, err)
	}
	if resp.Code != common.TxStatusCode_SUCCESS {
		return nil, &types.RevertError{Reason: resp.Message}
	}
	return &types.PendingTx{TxID: resp.TxId, Operation: op}, nil
}

// Confirm blocks until the submitted transaction is durably recorded, the
// polling budget is exhausted, or the context is cancelled.
func (c *Client) Confirm(ctx context.Context, pending *types.PendingTx) (*types.TxReceipt, error) {
	if pending == nil || pending.TxID == "" {
		return nil, fmt.Errorf("pending transaction handle is empty")
	}

	interval := time.Duration(c.cfg.ConfirmInterval) * time.Millisecond
	for attempt := 0; attempt < c.cfg.ConfirmAttempts; attempt++ {
		txInfo, err := c.sdkClient.GetTxByTxId(pending.TxID)
		if err == nil && txInfo != nil && txInfo.Transaction != nil && txInfo.Transaction.Result != nil {
			result := txInfo.Transaction.Result
			if result.Code != common.TxStatusCode_SUCCESS {
				return nil, &types.RevertError{Reason: result.Message}
			}
			contractResult := result.ContractResult
			if contractResult != nil && contractResult.Code != 0 {
				return nil, &types.RevertError{Reason: contractResult.Message}
			}
			receipt := &types.TxReceipt{TxID: pending.TxID, BlockHeight: txInfo.BlockHeight}
			if contractResult != nil {
				receipt.Result = string(contractResult.Result)
			}
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
	return nil, fmt.Errorf("confirmation of %s tx %s timed out after %d attempts",
		pending.Operation, pending.TxID, c.cfg.ConfirmAttempts)
}

// query invokes a read-only contract method and unmarshals the JSON result
// into out when out is non-nil.
func (c *Client) query(method string, kvs []*common.KeyValuePair, out any) error {
	resp, err := c.sdkClient.QueryContract(c.chainCfg.ContractName, method, kvs, -1)
	if err != nil {
		return fmt.Errorf("query %s: %w", method, err)
	}
	if resp.Code != common.TxStatusCode_SUCCESS {
		if strings.Contains(strings.ToLower(resp.Message), "not found") {
			return fmt.Errorf("query %s: %w", method, types.ErrNotFound)
		}
		return &types.RevertError{Reason: resp.Message}
	}
	if out == nil {
		return nil
	}
	if resp.ContractResult == nil || len(resp.ContractResult.Result) == 0 {
		return fmt.Errorf("query %s: %w", method, types.ErrNotFound)
	}
	if err := json.Unmarshal(resp.ContractResult.Result, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
	}
	return nil
}

// RegisterPart submits a new part registration.
func (c *Client) RegisterPart(ctx context.Context, in types.RegisterPartInput) (*types.PendingTx, error) {
	kvs := []*common.KeyValuePair{
		{Key: paramPartNumber, Value: []byte(in.PartNumber)},
		{Key: paramSerialNumber, Value: []byte(in.SerialNumber)},
		{Key: paramPartName, Value: []byte(in.PartName)},
		{Key: paramCertificateHash, Value: []byte(in.CertificateHash)},
	}
	return c.submit("register_part", c.chainCfg.Methods.RegisterPart, kvs)
}

// RecordMaintenance submits a maintenance record for a part.
func (c *Client) RecordMaintenance(ctx context.Context, in types.MaintenanceInput) (*types.PendingTx, error) {
	kvs := []*common.KeyValuePair{
		{Key: paramPartID, Value: []byte(strconv.FormatUint(in.PartID, 10))},
		{Key: paramMaintenanceType, Value: []byte(in.MaintenanceType)},
		{Key: paramReportHash, Value: []byte(in.ReportHash)},
		{Key: paramNotes, Value: []byte(in.Notes)},
	}
	return c.submit("record_maintenance", c.chainCfg.Methods.RecordMaintenance, kvs)
}

// TransferCustody submits a custody transfer for a part.
func (c *Client) TransferCustody(ctx context.Context, in types.TransferInput) (*types.PendingTx, error) {
	kvs := []*common.KeyValuePair{
		{Key: paramPartID, Value: []byte(strconv.FormatUint(in.PartID, 10))},
		{Key: paramToAddress, Value: []byte(in.ToAddress)},
		{Key: paramReason, Value: []byte(in.Reason)},
	}
	return c.submit("transfer_custody", c.chainCfg.Methods.TransferCustody, kvs)
}

// UpdatePartStatus submits a lifecycle status change for a part. The status
// ordinal crosses the boundary raw; transition legality is the contract's
// concern.
func (c *Client) UpdatePartStatus(ctx context.Context, partID uint64, status types.Status) (*types.PendingTx, error) {
	kvs := []*common.KeyValuePair{
		{Key: paramPartID, Value: []byte(strconv.FormatUint(partID, 10))},
		{Key: paramStatus, Value: []byte(strconv.Itoa(int(status)))},
	}
	return c.submit("update_part_status", c.chainCfg.Methods.UpdatePartStatus, kvs)
}

// GetPartDetails fetches the current snapshot of a part record.
func (c *Client) GetPartDetails(ctx context.Context, partID uint64) (*types.Part, error) {
	kvs := []*common.KeyValuePair{{Key: paramPartID, Value: []byte(strconv.FormatUint(partID, 10))}}
	var part types.Part
	if err := c.query(c.chainCfg.Methods.GetPartDetails, kvs, &part); err != nil {
		return nil, err
	}
	return &part, nil
}

// GetMaintenanceHistory fetches the ordered maintenance records of a part.
func (c *Client) GetMaintenanceHistory(ctx context.Context, partID uint64) ([]types.MaintenanceRecord, error) {
	kvs := []*common.KeyValuePair{{Key: paramPartID, Value: []byte(strconv.FormatUint(partID, 10))}}
	var records []types.MaintenanceRecord
	if err := c.query(c.chainCfg.Methods.GetMaintenanceHistory, kvs, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetCustodyHistory fetches the ordered custody transfers of a part.
func (c *Client) GetCustodyHistory(ctx context.Context, partID uint64) ([]types.CustodyTransfer, error) {
	kvs := []*common.KeyValuePair{{Key: paramPartID, Value: []byte(strconv.FormatUint(partID, 10))}}
	var transfers []types.CustodyTransfer
	if err := c.query(c.chainCfg.Methods.GetCustodyHistory, kvs, &transfers); err != nil {
		return nil, err
	}
	return transfers, nil
}

// GetStakeholderDetails resolves the display name and role of an address.
func (c *Client) GetStakeholderDetails(ctx context.Context, address string) (*types.Stakeholder, error) {
	kvs := []*common.KeyValuePair{{Key: paramAddress, Value: []byte(address)}}
	var stakeholder types.Stakeholder
	if err := c.query(c.chainCfg.Methods.GetStakeholderDetails, kvs, &stakeholder); err != nil {
		return nil, err
	}
	return &stakeholder, nil
}

// GetStakeholderParts fetches the ids of parts currently owned by an address.
func (c *Client) GetStakeholderParts(ctx context.Context, address string) ([]uint64, error) {
	kvs := []*common.KeyValuePair{{Key: paramAddress, Value: []byte(address)}}
	var ids []uint64
	if err := c.query(c.chainCfg.Methods.GetStakeholderParts, kvs, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
