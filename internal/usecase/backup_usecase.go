package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

// 主要4テーブルのスナップショットをJSONで書き出す。
// 読み取りは1つのトランザクションでまとめて行い、テーブル間で時点がずれないようにする。
type BackupUsecase struct {
	tx  repo.TransactionManager
	dir string
}

func NewBackupUsecase(tx repo.TransactionManager, dir string) *BackupUsecase {
	return &BackupUsecase{tx: tx, dir: dir}
}

type backupData struct {
	Products  []model.Product  `json:"products"`
	Suppliers []model.Supplier `json:"suppliers"`
	Sales     []model.Sale     `json:"sales"`
	SaleItems []model.SaleItem `json:"sale_items"`
}

type backupFile struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Data      backupData `json:"data"`
}

type BackupOutput struct {
	ID       string `json:"id"`
	FileName string `json:"file_name"`
}

func (u *BackupUsecase) Run(ctx context.Context, actor Actor) (BackupOutput, error) {
	if err := actor.require(model.PermSystemBackup); err != nil {
		return BackupOutput{}, err
	}

	var data backupData

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		if data.Products, err = r.Products().List(ctx); err != nil {
			return wrapStoreErr(err)
		}
		if data.Suppliers, err = r.Suppliers().List(ctx); err != nil {
			return wrapStoreErr(err)
		}

		sales, err := r.Sales().ListWithTotals(ctx)
		if err != nil {
			return wrapStoreErr(err)
		}
		data.Sales = make([]model.Sale, 0, len(sales))
		data.SaleItems = make([]model.SaleItem, 0)
		for _, s := range sales {
			data.Sales = append(data.Sales, s.Sale)
			items, err := r.SaleItems().ListBySaleID(ctx, s.ID)
			if err != nil {
				return wrapStoreErr(err)
			}
			data.SaleItems = append(data.SaleItems, items...)
		}
		return nil
	})
	if err != nil {
		return BackupOutput{}, wrapStoreErr(err)
	}

	id := uuid.NewString()
	file := backupFile{
		ID:        id,
		Timestamp: time.Now(),
		Data:      data,
	}

	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return BackupOutput{}, fmt.Errorf("marshal backup: %w", err)
	}

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return BackupOutput{}, fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("backup_%s.json", id)
	if err := os.WriteFile(filepath.Join(u.dir, name), raw, 0o644); err != nil {
		return BackupOutput{}, fmt.Errorf("write backup: %w", err)
	}

	return BackupOutput{ID: id, FileName: name}, nil
}

// 保存済みバックアップのファイル名一覧。
func (u *BackupUsecase) List(ctx context.Context, actor Actor) ([]string, error) {
	if err := actor.require(model.PermSystemBackup); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(u.dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
