package bot

import "github.com/fabinhoeventos/pesquisabot/internal/sessao"

// Etapas do fluxo de cadastro.
const (
	EtapaAguardandoCPF            sessao.Etapa = "aguardandoCPF"
	EtapaAguardandoConfirmacaoCPF sessao.Etapa = "aguardandoConfirmacaoCPF"
	EtapaAguardandoNome           sessao.Etapa = "aguardandoNome"
	EtapaAguardandoTelefone       sessao.Etapa = "aguardandoTelefone"
)

// Etapas do fluxo de pesquisa.
const (
	EtapaAguardandoNota          sessao.Etapa = "aguardandoNota"
	EtapaAguardandoEscolhaEvento sessao.Etapa = "aguardandoEscolhaEvento"
	EtapaAguardandoContinuar     sessao.Etapa = "aguardandoContinuar"
)

// Etapas dos menus e fluxos administrativos.
const (
	EtapaMenuAdmin       sessao.Etapa = "admin_menu"
	EtapaMenuLider       sessao.Etapa = "lider_menu"
	EtapaMenuCoordenador sessao.Etapa = "coordenador_menu"

	EtapaRelatorioOutro sessao.Etapa = "relatorio_outro"

	EtapaNovaPesquisaCPFs   sessao.Etapa = "nova_pesquisa_cpfs"
	EtapaNovaPesquisaEvento sessao.Etapa = "nova_pesquisa_evento"
	EtapaNovaPesquisaLider  sessao.Etapa = "nova_pesquisa_lider"
	EtapaNovaPesquisaData   sessao.Etapa = "nova_pesquisa_data"

	EtapaPapelCPF     sessao.Etapa = "papel_cpf"
	EtapaPapelEscolha sessao.Etapa = "papel_escolha"

	EtapaBlacklistMenu       sessao.Etapa = "blacklist_menu"
	EtapaBlacklistCPF        sessao.Etapa = "blacklist_cpf"
	EtapaBlacklistMotivo     sessao.Etapa = "blacklist_motivo"
	EtapaBlacklistConfirma   sessao.Etapa = "blacklist_confirma"
	EtapaBlacklistRemoverCPF sessao.Etapa = "blacklist_remover_cpf"

	EtapaCredEvento   sessao.Etapa = "cred_evento"
	EtapaCredCPFs     sessao.Etapa = "cred_cpfs"
	EtapaCredConfirma sessao.Etapa = "cred_confirma"
	EtapaCredFuncao   sessao.Etapa = "cred_funcao"

	EtapaSubEvento     sessao.Etapa = "sub_evento"
	EtapaSubCPFSaida   sessao.Etapa = "sub_cpf_saida"
	EtapaSubCPFEntrada sessao.Etapa = "sub_cpf_entrada"
	EtapaSubConfirma   sessao.Etapa = "sub_confirma"

	EtapaExportEvento sessao.Etapa = "export_evento"
)

// etapasAdministrativas exige papel com acesso a menu. A verificação roda a
// cada mensagem: rebaixar alguém derruba a sessão administrativa em curso.
var etapasAdministrativas = map[sessao.Etapa]bool{
	EtapaMenuAdmin:           true,
	EtapaMenuLider:           true,
	EtapaMenuCoordenador:     true,
	EtapaRelatorioOutro:      true,
	EtapaNovaPesquisaCPFs:    true,
	EtapaNovaPesquisaEvento:  true,
	EtapaNovaPesquisaLider:   true,
	EtapaNovaPesquisaData:    true,
	EtapaPapelCPF:            true,
	EtapaPapelEscolha:        true,
	EtapaBlacklistMenu:       true,
	EtapaBlacklistCPF:        true,
	EtapaBlacklistMotivo:     true,
	EtapaBlacklistConfirma:   true,
	EtapaBlacklistRemoverCPF: true,
	EtapaCredEvento:          true,
	EtapaCredCPFs:            true,
	EtapaCredConfirma:        true,
	EtapaCredFuncao:          true,
	EtapaSubEvento:           true,
	EtapaSubCPFSaida:         true,
	EtapaSubCPFEntrada:       true,
	EtapaSubConfirma:         true,
	EtapaExportEvento:        true,
}
