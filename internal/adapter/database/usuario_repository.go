package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/juscash/publicacoes-api/internal/domain/model"
	"github.com/juscash/publicacoes-api/internal/domain/repository"
)

// UsuarioRepository implementa repository.UsuarioRepository
type UsuarioRepository struct {
	db     *gorm.DB
	logger *zap.Logger
	tracer trace.Tracer
}

// NewUsuarioRepository cria um novo repositório de usuários
func NewUsuarioRepository(db *gorm.DB, logger *zap.Logger) repository.UsuarioRepository {
	tracer := otel.GetTracerProvider().Tracer("publicacoes-api.repository.usuario")

	return &UsuarioRepository{
		db:     db,
		logger: logger,
		tracer: tracer,
	}
}

// GetByEmail obtém a entidade completa (com hash de senha) pelo e-mail
func (r *UsuarioRepository) GetByEmail(ctx context.Context, email string) (*model.UsuarioEntity, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"UsuarioRepository.GetByEmail",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "usuarios"),
		),
	)
	defer span.End()

	var usuario model.UsuarioEntity
	if err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&usuario).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "usuario not found")
			return nil, repository.ErrUsuarioNotFound
		}
		r.logger.Error("falha ao buscar usuário por e-mail", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, fmt.Errorf("falha ao buscar usuário: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return &usuario, nil
}

// GetByID obtém a entidade completa pelo identificador
func (r *UsuarioRepository) GetByID(ctx context.Context, id uint) (*model.UsuarioEntity, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"UsuarioRepository.GetByID",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "usuarios"),
			attribute.Int("usuario.id", int(id)),
		),
	)
	defer span.End()

	var usuario model.UsuarioEntity
	if err := r.db.WithContext(ctx).First(&usuario, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "usuario not found")
			return nil, repository.ErrUsuarioNotFound
		}
		r.logger.Error("falha ao buscar usuário",
			zap.Uint("id", id),
			zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, fmt.Errorf("falha ao buscar usuário: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return &usuario, nil
}

// List retorna todos os usuários ordenados por nome
func (r *UsuarioRepository) List(ctx context.Context) ([]*model.UsuarioEntity, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"UsuarioRepository.List",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "usuarios"),
		),
	)
	defer span.End()

	var usuarios []*model.UsuarioEntity
	if err := r.db.WithContext(ctx).Order("nome ASC").Find(&usuarios).Error; err != nil {
		r.logger.Error("falha ao listar usuários", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, fmt.Errorf("falha ao listar usuários: %w", err)
	}

	span.SetAttributes(attribute.Int("usuarios.count", len(usuarios)))
	span.SetStatus(codes.Ok, "")
	return usuarios, nil
}

// Create insere um novo usuário (a senha já deve estar em hash)
func (r *UsuarioRepository) Create(ctx context.Context, usuario *model.UsuarioEntity) error {
	ctx, span := r.tracer.Start(
		ctx,
		"UsuarioRepository.Create",
		trace.WithAttributes(
			attribute.String("db.operation", "insert"),
			attribute.String("db.table", "usuarios"),
		),
	)
	defer span.End()

	usuario.Email = strings.ToLower(strings.TrimSpace(usuario.Email))

	// Unicidade verificada antes do insert para devolver um erro de domínio
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.UsuarioEntity{}).
		Where("LOWER(email) = ?", usuario.Email).
		Count(&count).Error; err != nil {
		span.SetStatus(codes.Error, "database error")
		return fmt.Errorf("falha ao verificar e-mail: %w", err)
	}
	if count > 0 {
		span.SetStatus(codes.Error, "email already in use")
		return repository.ErrEmailEmUso
	}

	if err := r.db.WithContext(ctx).Create(usuario).Error; err != nil {
		r.logger.Error("falha ao inserir usuário", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return fmt.Errorf("falha ao inserir usuário: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Update persiste alterações em um usuário existente
func (r *UsuarioRepository) Update(ctx context.Context, usuario *model.UsuarioEntity) error {
	ctx, span := r.tracer.Start(
		ctx,
		"UsuarioRepository.Update",
		trace.WithAttributes(
			attribute.String("db.operation", "update"),
			attribute.String("db.table", "usuarios"),
			attribute.Int("usuario.id", int(usuario.ID)),
		),
	)
	defer span.End()

	result := r.db.WithContext(ctx).Model(&model.UsuarioEntity{}).
		Where("id = ?", usuario.ID).
		Select("*").
		Omit("id", "data_criacao", "usuario_criacao").
		Updates(usuario)
	if result.Error != nil {
		r.logger.Error("falha ao atualizar usuário",
			zap.Uint("id", usuario.ID),
			zap.Error(result.Error))
		span.SetStatus(codes.Error, "database error")
		return fmt.Errorf("falha ao atualizar usuário: %w", result.Error)
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", result.RowsAffected))

	if result.RowsAffected == 0 {
		span.SetStatus(codes.Error, "no rows affected")
		return repository.ErrUsuarioNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Delete remove um usuário pelo identificador
func (r *UsuarioRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := r.tracer.Start(
		ctx,
		"UsuarioRepository.Delete",
		trace.WithAttributes(
			attribute.String("db.operation", "delete"),
			attribute.String("db.table", "usuarios"),
			attribute.Int("usuario.id", int(id)),
		),
	)
	defer span.End()

	result := r.db.WithContext(ctx).Delete(&model.UsuarioEntity{}, id)
	if result.Error != nil {
		r.logger.Error("falha ao excluir usuário",
			zap.Uint("id", id),
			zap.Error(result.Error))
		span.SetStatus(codes.Error, "database error")
		return fmt.Errorf("falha ao excluir usuário: %w", result.Error)
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", result.RowsAffected))

	if result.RowsAffected == 0 {
		span.SetStatus(codes.Error, "no rows affected")
		return repository.ErrUsuarioNotFound
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ListWithActiveResetToken retorna usuários com token de redefinição ainda válido
func (r *UsuarioRepository) ListWithActiveResetToken(ctx context.Context) ([]*model.UsuarioEntity, error) {
	ctx, span := r.tracer.Start(
		ctx,
		"UsuarioRepository.ListWithActiveResetToken",
		trace.WithAttributes(
			attribute.String("db.operation", "select"),
			attribute.String("db.table", "usuarios"),
		),
	)
	defer span.End()

	var usuarios []*model.UsuarioEntity
	if err := r.db.WithContext(ctx).
		Where("token_reset_senha IS NOT NULL AND expiracao_token_reset > ?", time.Now()).
		Find(&usuarios).Error; err != nil {
		r.logger.Error("falha ao listar usuários com token de redefinição", zap.Error(err))
		span.SetStatus(codes.Error, "database error")
		return nil, fmt.Errorf("falha ao listar usuários: %w", err)
	}

	span.SetAttributes(attribute.Int("usuarios.count", len(usuarios)))
	span.SetStatus(codes.Ok, "")
	return usuarios, nil
}
